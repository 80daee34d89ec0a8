package common

import (
	"strings"
	"testing"
)

func TestMakeRandDigits_LengthAndCharset(t *testing.T) {
	const n = 6
	s, err := MakeRandDigits(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n {
		t.Fatalf("expected length %d, got %d", n, len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789", c) {
			t.Fatalf("non-digit character %q in %q", c, s)
		}
	}
}

func TestMakeRandDigits_ZeroSize(t *testing.T) {
	s, err := MakeRandDigits(0)
	if err != nil {
		t.Fatalf("unexpected error for n=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for n=0, got %q", s)
	}
}
