package session

import (
	"testing"

	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
)

func TestAdjustUploadsClampsAtZero(t *testing.T) {
	s := New()
	s.Set(models.User{Username: "alice", UploadsCount: 1})

	s.AdjustUploads(-1)
	s.AdjustUploads(-1)

	user, ok := s.Current()
	if !ok {
		t.Fatal("Current() reported logged out")
	}
	if user.UploadsCount != 0 {
		t.Errorf("UploadsCount = %d, want 0", user.UploadsCount)
	}
}

func TestAdjustDownloads(t *testing.T) {
	s := New()
	s.Set(models.User{Username: "alice", DownloadsCount: 2})

	s.AdjustDownloads(1)
	s.AdjustDownloads(1)

	user, _ := s.Current()
	if user.DownloadsCount != 4 {
		t.Errorf("DownloadsCount = %d, want 4", user.DownloadsCount)
	}
}

func TestAdjustIsNoopWhenLoggedOut(t *testing.T) {
	s := New()
	s.AdjustUploads(5)
	s.AdjustDownloads(5)

	if s.LoggedIn() {
		t.Error("adjusting counters created a session")
	}
}

func TestSetOverwritesDrift(t *testing.T) {
	s := New()
	s.Set(models.User{Username: "alice", UploadsCount: 3})
	s.AdjustUploads(2)

	s.Set(models.User{Username: "alice", UploadsCount: 4})

	user, _ := s.Current()
	if user.UploadsCount != 4 {
		t.Errorf("UploadsCount = %d after authoritative Set, want 4", user.UploadsCount)
	}
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := New()
	s.Set(models.User{Username: "alice"})

	user, _ := s.Current()
	user.Username = "mallory"

	if s.Username() != "alice" {
		t.Errorf("Username() = %q, mutation of the copy leaked", s.Username())
	}
}

func TestRequireLogin(t *testing.T) {
	s := New()

	err := s.RequireLogin()
	if !faults.IsKind(err, faults.AuthRequired) {
		t.Errorf("RequireLogin() while logged out = %v, want AuthRequired", err)
	}

	s.Set(models.User{Username: "alice"})
	if err := s.RequireLogin(); err != nil {
		t.Errorf("RequireLogin() while logged in = %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     *models.User
		wantKind faults.Kind
		wantOK   bool
	}{
		{name: "logged out", user: nil, wantKind: faults.AuthRequired},
		{name: "regular user", user: &models.User{Username: "bob"}, wantKind: faults.Forbidden},
		{name: "admin", user: &models.User{Username: "root", IsAdmin: true}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if tt.user != nil {
				s.Set(*tt.user)
			}
			err := s.RequireAdmin()
			if tt.wantOK {
				if err != nil {
					t.Errorf("RequireAdmin() = %v, want nil", err)
				}
				return
			}
			if !faults.IsKind(err, tt.wantKind) {
				t.Errorf("RequireAdmin() = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Set(models.User{Username: "alice", IsAdmin: true})
	s.Clear()

	if s.LoggedIn() || s.IsAdmin() || s.Username() != "" {
		t.Error("Clear() left session state behind")
	}
}
