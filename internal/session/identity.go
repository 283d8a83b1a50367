// Package session owns the server-issued playthrough identity.
package session

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict 匹配所有 ConflictError，可用于 errors.Is。
	ErrConflict = errors.New("session conflict")
	// ErrNoSession 表示选择请求发生在会话建立之前。
	ErrNoSession = errors.New("no session established")
	// ErrEmptyID 表示服务端返回了空的会话 id。
	ErrEmptyID = errors.New("empty session id")
)

// ConflictError reports a server id that contradicts the local one.
type ConflictError struct {
	Local  string
	Remote string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session conflict: local id %q, server reported %q", e.Local, e.Remote)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Identity is a write-once slot for the session id. It is meant to be
// touched from a single goroutine (the UI loop) only.
type Identity struct {
	id string
}

// NewIdentity returns an empty slot.
func NewIdentity() *Identity {
	return &Identity{}
}

// ID returns the current id and whether one has been assigned.
func (s *Identity) ID() (string, bool) {
	return s.id, s.id != ""
}

// Adopt stores remote if the slot is empty; otherwise remote must equal the
// stored id byte for byte.
func (s *Identity) Adopt(remote string) error {
	if remote == "" {
		return ErrEmptyID
	}
	if s.id == "" {
		s.id = remote
		return nil
	}
	if s.id != remote {
		return &ConflictError{Local: s.id, Remote: remote}
	}
	return nil
}

// Verify requires an assigned id that equals remote exactly.
func (s *Identity) Verify(remote string) error {
	if s.id == "" {
		return ErrNoSession
	}
	if s.id != remote {
		return &ConflictError{Local: s.id, Remote: remote}
	}
	return nil
}
