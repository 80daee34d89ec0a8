package otp

import (
	"errors"
	"testing"
	"time"

	"dropwatch/internal/common"
)

func TestVerify_ConsumesCode(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Issue(PurposeLogin, "ana@gmail.com", "123456")

	if err := s.Verify(PurposeLogin, "ana@gmail.com", "123456"); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	err := s.Verify(PurposeLogin, "ana@gmail.com", "123456")
	if !errors.Is(err, common.ErrCodeNotIssued) {
		t.Fatalf("second verify: got %v, want ErrCodeNotIssued", err)
	}
}

func TestVerify_MismatchLeavesCodeInPlace(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Issue(PurposeLogin, "ana@gmail.com", "123456")

	if err := s.Verify(PurposeLogin, "ana@gmail.com", "000000"); !errors.Is(err, common.ErrCodeMismatch) {
		t.Fatalf("got %v, want ErrCodeMismatch", err)
	}
	if err := s.Verify(PurposeLogin, "ana@gmail.com", "123456"); err != nil {
		t.Fatalf("retry with right code: %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Issue(PurposeReset, "ana@gmail.com", "654321")

	s.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	if err := s.Verify(PurposeReset, "ana@gmail.com", "654321"); !errors.Is(err, common.ErrCodeExpired) {
		t.Fatalf("got %v, want ErrCodeExpired", err)
	}
}

func TestVerify_PurposesAreIsolated(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Issue(PurposeLogin, "ana@gmail.com", "123456")

	if err := s.Verify(PurposeReset, "ana@gmail.com", "123456"); !errors.Is(err, common.ErrCodeNotIssued) {
		t.Fatalf("got %v, want ErrCodeNotIssued", err)
	}
}

func TestIssue_ReplacesEarlierCode(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Issue(PurposeLogin, "ana@gmail.com", "111111")
	s.Issue(PurposeLogin, "ana@gmail.com", "222222")

	if err := s.Verify(PurposeLogin, "ana@gmail.com", "111111"); !errors.Is(err, common.ErrCodeMismatch) {
		t.Fatalf("stale code: got %v, want ErrCodeMismatch", err)
	}
	if err := s.Verify(PurposeLogin, "ana@gmail.com", "222222"); err != nil {
		t.Fatalf("current code: %v", err)
	}
}
