package secrets

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	c := NewCipher("correct horse battery staple")
	plaintext := []byte(`{"version":1}`)

	blob, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Contains(blob, plaintext) {
		t.Error("ciphertext contains plaintext")
	}

	got, err := c.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("roundtrip = %q, want %q", got, plaintext)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	blob, err := NewCipher("right").Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := NewCipher("wrong").Decrypt(blob); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}

func TestDecryptTampered(t *testing.T) {
	c := NewCipher("pw")
	blob, err := c.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	blob[len(blob)-1] ^= 0xff
	if _, err := c.Decrypt(blob); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}

	if _, err := c.Decrypt([]byte("short")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("truncated err = %v, want ErrDecrypt", err)
	}
}

func TestDecryptStringDegradesToEmpty(t *testing.T) {
	c := NewCipher("pw")
	if got := c.DecryptString([]byte("garbage")); got != "" {
		t.Errorf("DecryptString = %q, want empty", got)
	}

	blob, err := c.Encrypt([]byte("hunter2"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if got := c.DecryptString(blob); got != "hunter2" {
		t.Errorf("DecryptString = %q, want hunter2", got)
	}
}
