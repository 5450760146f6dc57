package hasher

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashUsesFreshSalt(t *testing.T) {
	h := New(bcrypt.MinCost)

	first, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if first == second {
		t.Fatal("expected different hashes for the same password")
	}
	if first == "pw1" {
		t.Fatal("hash must not equal the plaintext")
	}
}

func TestVerify(t *testing.T) {
	h := New(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if !h.Verify("pw1", hash) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("pw2", hash) {
		t.Fatal("expected wrong password to fail")
	}
	if h.Verify("pw1", "not-a-hash") {
		t.Fatal("expected malformed hash to fail")
	}
}

func TestNewFallsBackToDefaultCost(t *testing.T) {
	h := New(0)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if cost != DefaultCost {
		t.Fatalf("cost = %d, want %d", cost, DefaultCost)
	}
}
