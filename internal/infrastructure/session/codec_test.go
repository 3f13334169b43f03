package session

import (
	"crypto/rand"
	"errors"
	"testing"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("key: %v", err)
	}
	c, err := NewCodec(key)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.Seal("session-123")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	got, err := c.Open(token)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != "session-123" {
		t.Fatalf("expected session-123, got %q", got)
	}
}

func TestCodec_TamperDetection(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.Seal("session-123")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	tampered := "A" + token[1:]
	if _, err := c.Open(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_WrongKey(t *testing.T) {
	c1 := newTestCodec(t)
	c2 := newTestCodec(t)

	token, err := c1.Seal("session-123")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := c2.Open(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_GarbageInput(t *testing.T) {
	c := newTestCodec(t)

	for _, in := range []string{"", "!!!", "c2hvcnQ"} {
		if _, err := c.Open(in); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("input %q: expected ErrInvalidToken, got %v", in, err)
		}
	}
}

func TestNewCodec_BadKeyLength(t *testing.T) {
	if _, err := NewCodec(make([]byte, 16)); err == nil {
		t.Fatalf("expected error for 16-byte key")
	}
}
