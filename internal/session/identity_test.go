package session_test

import (
	"errors"
	"testing"

	"inkpad/internal/session"
)

func TestIdentity_AdoptOnce(t *testing.T) {
	s := session.NewIdentity()
	if _, ok := s.ID(); ok {
		t.Fatal("new identity should be unset")
	}
	if err := s.Adopt("abc"); err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	if err := s.Adopt("abc"); err != nil {
		t.Fatalf("Adopt same id: %v", err)
	}
	id, ok := s.ID()
	if !ok || id != "abc" {
		t.Fatalf("ID() = %q,%v want abc,true", id, ok)
	}
}

func TestIdentity_AdoptConflict(t *testing.T) {
	s := session.NewIdentity()
	_ = s.Adopt("abc")

	err := s.Adopt("xyz")
	if !errors.Is(err, session.ErrConflict) {
		t.Fatalf("Adopt(xyz) error = %v, want ErrConflict", err)
	}
	var conflict *session.ConflictError
	if !errors.As(err, &conflict) || conflict.Local != "abc" || conflict.Remote != "xyz" {
		t.Fatalf("unexpected conflict detail: %#v", conflict)
	}
	if id, _ := s.ID(); id != "abc" {
		t.Fatalf("ID() = %q after conflict, want abc", id)
	}
}

func TestIdentity_AdoptEmpty(t *testing.T) {
	s := session.NewIdentity()
	if err := s.Adopt(""); !errors.Is(err, session.ErrEmptyID) {
		t.Fatal("Adopt of empty id should fail")
	}
	if _, ok := s.ID(); ok {
		t.Fatal("empty id must not be stored")
	}
}

func TestIdentity_ComparesExactly(t *testing.T) {
	cases := []string{"abc ", " abc", "ABC", "abc\n"}
	for _, remote := range cases {
		s := session.NewIdentity()
		_ = s.Adopt("abc")
		if err := s.Adopt(remote); !errors.Is(err, session.ErrConflict) {
			t.Fatalf("Adopt(%q) after abc = %v, want ErrConflict", remote, err)
		}
		if err := s.Verify(remote); !errors.Is(err, session.ErrConflict) {
			t.Fatalf("Verify(%q) after abc = %v, want ErrConflict", remote, err)
		}
		if id, _ := s.ID(); id != "abc" {
			t.Fatalf("ID() = %q, want abc", id)
		}
	}
}

func TestIdentity_Verify(t *testing.T) {
	s := session.NewIdentity()
	if err := s.Verify("abc"); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("Verify on empty slot = %v, want ErrNoSession", err)
	}
	_ = s.Adopt("abc")
	if err := s.Verify("abc"); err != nil {
		t.Fatalf("Verify(abc): %v", err)
	}
	if err := s.Verify(""); !errors.Is(err, session.ErrConflict) {
		t.Fatalf("Verify(\"\") = %v, want ErrConflict", err)
	}
}
