//go:build !integration

package security

import "testing"

func TestTokenCipherRoundTrip(t *testing.T) {
	for _, key := range []string{"0123456789abcdef0123456789abcdef", "a passphrase of odd length"} {
		c, err := NewTokenCipher(key)
		if err != nil {
			t.Fatalf("NewTokenCipher(%q): %v", key, err)
		}
		sealed, err := c.Encrypt("admin-secret")
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if sealed == "admin-secret" {
			t.Fatal("ciphertext equals plaintext")
		}
		got, err := c.Decrypt(sealed)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if got != "admin-secret" {
			t.Errorf("Decrypt = %q", got)
		}
	}
}

func TestTokenCipherRejectsGarbage(t *testing.T) {
	c, _ := NewTokenCipher("0123456789abcdef")
	if _, err := c.Decrypt("not base64!"); err == nil {
		t.Error("expected base64 error")
	}
	if _, err := c.Decrypt("YWJj"); err == nil {
		t.Error("expected short ciphertext error")
	}
	other, _ := NewTokenCipher("fedcba9876543210")
	sealed, _ := other.Encrypt("x")
	if _, err := c.Decrypt(sealed); err == nil {
		t.Error("expected auth failure with a different key")
	}
	if _, err := NewTokenCipher(""); err == nil {
		t.Error("expected error for empty key")
	}
}
