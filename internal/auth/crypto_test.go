package auth

import "testing"

var testKey = []byte("0123456789abcdef") // 16 bytes

func TestEncryptDecryptPasswordRoundTrip(t *testing.T) {
	cases := []string{"", "short", "a reasonably long password with spaces!"}
	for _, pw := range cases {
		ct, err := EncryptPassword(testKey, pw)
		if err != nil {
			t.Fatalf("encrypt %q: %v", pw, err)
		}
		got, err := DecryptPassword(testKey, ct)
		if err != nil {
			t.Fatalf("decrypt %q: %v", pw, err)
		}
		if got != pw {
			t.Fatalf("round-trip mismatch: got %q, want %q", got, pw)
		}
	}
}

func TestEncryptPasswordNonDeterministic(t *testing.T) {
	a, err := EncryptPassword(testKey, "hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := EncryptPassword(testKey, "hunter2")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("expected distinct ciphertexts for the same plaintext due to random IVs")
	}
}

func TestDecryptPasswordMalformedCiphertext(t *testing.T) {
	if _, err := DecryptPassword(testKey, []byte("too short")); err == nil {
		t.Fatal("expected error for ciphertext shorter than one block")
	}
}

func TestTokenForAndVerify(t *testing.T) {
	token := TokenFor("sesame", "saltvalue")
	if !VerifyToken("sesame", "saltvalue", token) {
		t.Fatal("expected VerifyToken to accept its own TokenFor output")
	}
	if VerifyToken("wrong-password", "saltvalue", token) {
		t.Fatal("expected VerifyToken to reject a mismatched password")
	}
}
