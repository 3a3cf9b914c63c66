package jwks

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func TestEncodeParse(t *testing.T) {
	t.Parallel()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	b, err := Encode([]Key{{Kid: "k1", Public: &priv.PublicKey}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	keys, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := keys["k1"]
	if got == nil || got.E != priv.E || got.N.Cmp(priv.N) != 0 {
		t.Fatalf("parsed key mismatch")
	}
}

func TestParse_SkipsUnusableKeys(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"keys":[{"kty":"EC","kid":"x","n":"AQ","e":"AQAB"}]}`)); err == nil {
		t.Fatalf("expected error for set without RSA keys")
	}
	if _, err := Parse([]byte(`{"keys":[]}`)); err == nil {
		t.Fatalf("expected error for empty set")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for garbage")
	}
}

func TestEncode_RejectsIncompleteKey(t *testing.T) {
	t.Parallel()

	if _, err := Encode([]Key{{Kid: "k"}}); err == nil {
		t.Fatalf("expected error")
	}
}
