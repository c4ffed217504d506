package session

import (
	"sync"
	"testing"

	"moneyguard/internal/models"
)

func TestSession_Lifecycle(t *testing.T) {
	s := New()
	if s.IsAuthenticated() {
		t.Fatal("new session should not be authenticated")
	}
	if s.User() != nil {
		t.Fatal("new session should have no user")
	}

	s.Authenticate("tok-1", models.User{ID: "u1", Email: "a@example.com"})
	if !s.IsAuthenticated() || s.Token() != "tok-1" {
		t.Fatalf("expected token tok-1, got %q", s.Token())
	}
	if got := s.User(); got == nil || got.ID != "u1" {
		t.Fatalf("unexpected user %+v", got)
	}
	if s.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", s.Generation())
	}

	s.Expire()
	if s.IsAuthenticated() || s.User() != nil {
		t.Error("expired session should be cleared")
	}

	s.Authenticate("tok-2", models.User{ID: "u1"})
	if s.Generation() != 2 {
		t.Errorf("Generation = %d, want 2", s.Generation())
	}
}

func TestSession_UserIsCopy(t *testing.T) {
	s := New()
	s.Authenticate("tok", models.User{ID: "u1", Username: "ann"})

	u := s.User()
	u.Username = "changed"
	if s.User().Username != "ann" {
		t.Error("mutating the returned user must not change the session")
	}
}

func TestSession_LogoutRunsListeners(t *testing.T) {
	s := New()
	var calls []string
	s.OnLogout(func() { calls = append(calls, "first") })
	s.OnLogout(func() { calls = append(calls, "second") })

	s.Authenticate("tok", models.User{ID: "u1"})
	s.Expire()
	if len(calls) != 0 {
		t.Fatalf("Expire should not run logout listeners, got %v", calls)
	}

	s.Logout()
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("unexpected listener calls %v", calls)
	}
	if s.IsAuthenticated() {
		t.Error("session should be cleared after logout")
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Authenticate("tok", models.User{ID: "u1"})
		}()
		go func() {
			defer wg.Done()
			_ = s.IsAuthenticated()
			_ = s.User()
		}()
	}
	wg.Wait()
	if s.Generation() != 20 {
		t.Errorf("Generation = %d, want 20", s.Generation())
	}
}
