// Package session holds the current authenticated user and the derived
// counters the UI adjusts optimistically. The backend stays authoritative:
// every Set from a fresh /user-info fetch overwrites local drift.
package session

import (
	"sync"

	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
)

type Session struct {
	mu   sync.RWMutex
	user *models.User
}

func New() *Session {
	return &Session{}
}

func (s *Session) Set(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// Current returns a copy of the logged-in user, or ok=false when logged out.
func (s *Session) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

// AdjustUploads applies an optimistic delta to the upload counter, clamped at
// zero. No-op when logged out.
func (s *Session) AdjustUploads(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	s.user.UploadsCount = clamp(s.user.UploadsCount + delta)
}

func (s *Session) AdjustDownloads(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	s.user.DownloadsCount = clamp(s.user.DownloadsCount + delta)
}

// RequireLogin rejects locally before any network round trip.
func (s *Session) RequireLogin() error {
	if !s.LoggedIn() {
		return faults.New(faults.AuthRequired, "Please log in first")
	}
	return nil
}

// RequireAdmin guards admin-scoped operations; the server re-checks anyway.
func (s *Session) RequireAdmin() error {
	if err := s.RequireLogin(); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return faults.New(faults.Forbidden, "Admin access required")
	}
	return nil
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
