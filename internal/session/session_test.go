package session_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	memclock "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/clock"
	memtokenstorage "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/tokenstorage"
	"github.com/Overland-East-Bay/trip-journal/internal/session"
)

var epoch = time.Unix(1700000000, 0).UTC()

// mint builds an unsigned token carrying claims.
func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return tok
}

// rawToken wraps an arbitrary payload string in a three-segment token.
func rawToken(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"none"}`)) + "." + enc.EncodeToString([]byte(payload)) + ".sig"
}

func newDecoder(t *testing.T, token string) (*session.Decoder, *session.TokenStore, *memclock.ManualClock) {
	t.Helper()
	store := session.NewTokenStore(memtokenstorage.NewStorage(), "")
	if token != "" {
		if err := store.Set(context.Background(), token); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	clk := memclock.NewManualClock(epoch)
	return session.NewDecoder(store, clk), store, clk
}

func TestTokenStore_RoundTripAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewTokenStore(memtokenstorage.NewStorage(), session.DefaultTokenKey)

	if _, ok := store.Get(ctx); ok {
		t.Fatalf("expected empty store")
	}
	for _, tok := range []string{"a.b.c", "", "not a token at all"} {
		if err := store.Set(ctx, tok); err != nil {
			t.Fatalf("Set(%q): %v", tok, err)
		}
		got, ok := store.Get(ctx)
		if !ok || got != tok {
			t.Fatalf("Get()=%q,%v want %q", got, ok, tok)
		}
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.Get(ctx); ok {
		t.Fatalf("expected empty store after Clear")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear twice: %v", err)
	}
}

func TestTokenStore_SharedStorageSeesClearImmediately(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := memtokenstorage.NewStorage()
	a := session.NewTokenStore(storage, "")
	b := session.NewTokenStore(storage, "")

	_ = a.Set(ctx, "x.y.z")
	if got, ok := b.Get(ctx); !ok || got != "x.y.z" {
		t.Fatalf("b.Get()=%q,%v", got, ok)
	}
	_ = b.Clear(ctx)
	if _, ok := a.Get(ctx); ok {
		t.Fatalf("a still sees cleared token")
	}
}

func TestDecoder_IsValid_SegmentCount(t *testing.T) {
	t.Parallel()

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"nameid":"1"}`))
	for _, tok := range []string{
		"single",
		"two." + payload,
		"h." + payload + ".s.extra",
		"h..s." + payload,
		".",
	} {
		d, _, _ := newDecoder(t, tok)
		if d.IsValid(context.Background()) {
			t.Fatalf("IsValid(%q)=true, want false", tok)
		}
	}
}

func TestDecoder_IsValid_MalformedPayload(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{
		"h.!!!notbase64!!!.s",
		rawToken("not json"),
		rawToken(`["array"]`),
		rawToken(`null`),
		rawToken(`{"a":1} trailing`),
		rawToken(`{"a":1}}`),
		rawToken(`{"a":1}]`),
		rawToken(`{"a":1}{"b":2}`),
		rawToken(`{"exp":"soon"}`),
	} {
		d, _, _ := newDecoder(t, tok)
		if d.IsValid(context.Background()) {
			t.Fatalf("IsValid(%q)=true, want false", tok)
		}
		if _, ok := d.RawPayload(context.Background()); ok {
			t.Fatalf("RawPayload(%q) ok=true", tok)
		}
	}
}

func TestDecoder_IsValid_NoTokenIsInvalid(t *testing.T) {
	t.Parallel()

	d, _, _ := newDecoder(t, "")
	ctx := context.Background()
	if d.IsValid(ctx) {
		t.Fatalf("IsValid()=true with empty store")
	}
	if _, ok := d.CurrentUserID(ctx); ok {
		t.Fatalf("CurrentUserID ok with empty store")
	}
	if _, ok := d.CurrentUserEmail(ctx); ok {
		t.Fatalf("CurrentUserEmail ok with empty store")
	}
	if st := d.Inspect(ctx); st.Valid || st.Reason != session.ReasonMissing {
		t.Fatalf("Inspect()=%+v", st)
	}
}

func TestDecoder_IsValid_NoExpNeverExpires(t *testing.T) {
	t.Parallel()

	d, _, clk := newDecoder(t, mint(t, jwt.MapClaims{"nameid": "1"}))
	if !d.IsValid(context.Background()) {
		t.Fatalf("IsValid()=false")
	}
	clk.Advance(100 * 365 * 24 * time.Hour)
	if !d.IsValid(context.Background()) {
		t.Fatalf("IsValid()=false after a century")
	}
}

func TestDecoder_IsValid_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	exp := epoch.Add(time.Hour)
	d, _, clk := newDecoder(t, mint(t, jwt.MapClaims{"exp": exp.Unix()}))
	ctx := context.Background()

	clk.Set(exp.Add(-time.Millisecond))
	if !d.IsValid(ctx) {
		t.Fatalf("IsValid()=false just before exp")
	}
	clk.Set(exp)
	if d.IsValid(ctx) {
		t.Fatalf("IsValid()=true at exact exp")
	}
	if st := d.Inspect(ctx); st.Reason != session.ReasonExpired || st.ExpiresAt == nil || !st.ExpiresAt.Equal(exp) {
		t.Fatalf("Inspect()=%+v", st)
	}
	clk.Set(exp.Add(time.Second))
	if d.IsValid(ctx) {
		t.Fatalf("IsValid()=true after exp")
	}
}

func TestDecode_FarFutureExpIsValid(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`{"exp":9.3e15}`, `{"exp":1e17}`, `{"exp":1e300}`} {
		claims, got := session.Decode(rawToken(payload), epoch)
		if got != session.ReasonOK {
			t.Fatalf("Decode(%s) reason=%q, want ok", payload, got)
		}
		exp, ok := claims.ExpiresAt()
		if !ok || !exp.After(epoch) {
			t.Fatalf("ExpiresAt(%s)=%v,%v", payload, exp, ok)
		}
	}
	if _, got := session.Decode(rawToken(`{"exp":-1e300}`), epoch); got != session.ReasonExpired {
		t.Fatalf("Decode(exp=-1e300) reason=%q, want expired", got)
	}
}

func TestDecode_TrailingWhitespaceIsValid(t *testing.T) {
	t.Parallel()

	if _, got := session.Decode(rawToken("{\"a\":1} \n"), epoch); got != session.ReasonOK {
		t.Fatalf("reason=%q, want ok", got)
	}
}

func TestDecoder_IsValid_AcceptsStdAlphabetAndPadding(t *testing.T) {
	t.Parallel()

	// Standard-alphabet encoding of this payload contains "/" and "+" plus padding.
	payload := `{"email":"a?b>c@example.com","k":"~~~"}`
	std := base64.StdEncoding.EncodeToString([]byte(payload))
	d, _, _ := newDecoder(t, "h."+std+".s")
	email, ok := d.CurrentUserEmail(context.Background())
	if !ok || email != "a?b>c@example.com" {
		t.Fatalf("CurrentUserEmail()=%q,%v", email, ok)
	}
}

func TestDecoder_CurrentUserID_ClaimPriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   int64
		ok     bool
	}{
		{"nameid", jwt.MapClaims{"nameid": "42"}, 42, true},
		{"userid", jwt.MapClaims{"userid": "42"}, 42, true},
		{"user_id", jwt.MapClaims{"user_id": "42"}, 42, true},
		{"namespaced", jwt.MapClaims{session.ClaimNameIdentifierURI: "42"}, 42, true},
		{"numeric claim", jwt.MapClaims{"nameid": 42}, 42, true},
		{"priority", jwt.MapClaims{"nameid": "1", "userid": "2", "user_id": "3"}, 1, true},
		{"empty falls through", jwt.MapClaims{"nameid": "", "user_id": "7"}, 7, true},
		{"non numeric", jwt.MapClaims{"nameid": "abc"}, 0, false},
		{"non numeric does not fall through", jwt.MapClaims{"nameid": "abc", "userid": "5"}, 0, false},
		{"none", jwt.MapClaims{"email": "a@b"}, 0, false},
		{"all empty", jwt.MapClaims{"nameid": "", "userid": ""}, 0, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, _, _ := newDecoder(t, mint(t, tc.claims))
			got, ok := d.CurrentUserID(context.Background())
			if ok != tc.ok || got != tc.want {
				t.Fatalf("CurrentUserID()=%d,%v want %d,%v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestDecoder_CurrentUserEmail_ClaimPriority(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
		ok     bool
	}{
		{"email", jwt.MapClaims{"email": "a@example.com", "sub": "b@example.com"}, "a@example.com", true},
		{"sub", jwt.MapClaims{"sub": "b@example.com"}, "b@example.com", true},
		{"namespaced", jwt.MapClaims{session.ClaimEmailAddressURI: "c@example.com"}, "c@example.com", true},
		{"verbatim", jwt.MapClaims{"email": "  Mixed@Example.COM "}, "  Mixed@Example.COM ", true},
		{"none", jwt.MapClaims{"nameid": "1"}, "", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, _, _ := newDecoder(t, mint(t, tc.claims))
			got, ok := d.CurrentUserEmail(context.Background())
			if ok != tc.ok || got != tc.want {
				t.Fatalf("CurrentUserEmail()=%q,%v want %q,%v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestDecoder_ExpiredTokenHidesClaims(t *testing.T) {
	t.Parallel()

	d, _, _ := newDecoder(t, mint(t, jwt.MapClaims{"nameid": "9", "email": "x@y", "exp": epoch.Add(-time.Minute).Unix()}))
	ctx := context.Background()
	if _, ok := d.CurrentUserID(ctx); ok {
		t.Fatalf("CurrentUserID ok for expired token")
	}
	if _, ok := d.CurrentUserEmail(ctx); ok {
		t.Fatalf("CurrentUserEmail ok for expired token")
	}
	if _, ok := d.RawPayload(ctx); ok {
		t.Fatalf("RawPayload ok for expired token")
	}
}

func TestDecoder_RawPayload_CustomClaims(t *testing.T) {
	t.Parallel()

	d, _, _ := newDecoder(t, mint(t, jwt.MapClaims{"nameid": "1", "role": "admin"}))
	p, ok := d.RawPayload(context.Background())
	if !ok {
		t.Fatalf("RawPayload ok=false")
	}
	if p["role"] != "admin" {
		t.Fatalf("role=%v", p["role"])
	}
}

func TestDecoder_ReReadsStoreOnEveryCall(t *testing.T) {
	t.Parallel()

	d, store, _ := newDecoder(t, mint(t, jwt.MapClaims{"nameid": "1"}))
	ctx := context.Background()
	if id, _ := d.CurrentUserID(ctx); id != 1 {
		t.Fatalf("id=%d", id)
	}
	_ = store.Set(ctx, mint(t, jwt.MapClaims{"nameid": "2"}))
	if id, _ := d.CurrentUserID(ctx); id != 2 {
		t.Fatalf("id after replace=%d", id)
	}
	_ = store.Clear(ctx)
	if d.IsValid(ctx) {
		t.Fatalf("IsValid after Clear")
	}
}

func TestDecode_Reasons(t *testing.T) {
	t.Parallel()

	cases := map[string]session.Reason{
		"":                        session.ReasonMissing,
		"a.b":                     session.ReasonMalformed,
		rawToken("{}"):            session.ReasonOK,
		rawToken(`{"exp":1}`):     session.ReasonExpired,
		rawToken(`{"exp":null}`):  session.ReasonOK,
		rawToken(`{"exp":"x"}`):   session.ReasonMalformed,
		rawToken(`{"exp":9e12}`):  session.ReasonOK,
		rawToken(`{"exp":1.5e9}`): session.ReasonExpired,
	}
	for tok, want := range cases {
		if _, got := session.Decode(tok, epoch); got != want {
			t.Fatalf("Decode(%q) reason=%q, want %q", tok, got, want)
		}
	}
}
