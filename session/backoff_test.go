package session

import (
	"testing"
	"time"
)

func TestBackoffSequence(t *testing.T) {
	b := NewBackoff()

	if d := b.Next(); d != time.Second {
		t.Fatal("first delay is not one second:", d)
	}

	// Everything after the first delay lies in the long band.
	for i := 0; i < 50; i++ {
		d := b.Next()
		if d < 115*time.Second || d >= 125*time.Second {
			t.Fatalf("delay %d out of [115s, 125s): %s", i+2, d)
		}
	}
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoff()

	b.Next()
	b.Next()
	b.Reset()

	if d := b.Next(); d != time.Second {
		t.Fatal("reset did not restart the sequence:", d)
	}
}
