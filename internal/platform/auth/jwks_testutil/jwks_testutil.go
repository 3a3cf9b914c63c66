package jwks_testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Overland-East-Bay/trip-journal/internal/platform/auth/jwks"
)

type Keypair struct {
	Kid     string
	Private *rsa.PrivateKey
}

func GenerateRSAKeypair(kid string) (Keypair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return Keypair{}, err
	}
	return Keypair{Kid: kid, Private: priv}, nil
}

// NewRotatingJWKSServer returns a JWKS server whose key set can be swapped at
// runtime, plus a counter of how many times it was fetched.
func NewRotatingJWKSServer() (srv *httptest.Server, setKeys func(keys []Keypair), fetches *atomic.Int64) {
	var body atomic.Value // []byte
	body.Store([]byte(`{"keys":[]}`))
	fetches = &atomic.Int64{}

	setKeys = func(keys []Keypair) {
		pub := make([]jwks.Key, 0, len(keys))
		for _, kp := range keys {
			pub = append(pub, jwks.Key{Kid: kp.Kid, Public: &kp.Private.PublicKey})
		}
		b, err := jwks.Encode(pub)
		if err != nil {
			panic(err)
		}
		body.Store(b)
	}

	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body.Load().([]byte))
	}))
	return srv, setKeys, fetches
}

// Token describes the claims of a minted test token.
type Token struct {
	Issuer   string
	Audience any // string or []string
	UserID   string
	Email    string
	Subject  string

	IssuedAt  time.Time
	TTL       time.Duration
	NotBefore *time.Duration // relative to IssuedAt

	// Extra claims are merged last and may override any of the above.
	Extra map[string]any
}

// Mint signs tok with RS256 and stamps the kid header.
// UserID is carried in the "nameid" claim.
func Mint(kp Keypair, tok Token) (string, error) {
	claims := jwt.MapClaims{
		"iss": tok.Issuer,
		"aud": tok.Audience,
		"exp": tok.IssuedAt.Add(tok.TTL).Unix(),
		"iat": tok.IssuedAt.Unix(),
	}
	if tok.UserID != "" {
		claims["nameid"] = tok.UserID
	}
	if tok.Email != "" {
		claims["email"] = tok.Email
	}
	if tok.Subject != "" {
		claims["sub"] = tok.Subject
	}
	if tok.NotBefore != nil {
		claims["nbf"] = tok.IssuedAt.Add(*tok.NotBefore).Unix()
	}
	for k, v := range tok.Extra {
		claims[k] = v
	}

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = kp.Kid
	return t.SignedString(kp.Private)
}
