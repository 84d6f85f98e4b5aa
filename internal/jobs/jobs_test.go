// AngelaMos | 2026
// jobs_test.go

package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorcamp/backend/internal/core"
)

type stubCleaner struct {
	calls int
	err   error
}

func (s *stubCleaner) CleanupTokens(context.Context) (int64, error) {
	s.calls++
	return 3, s.err
}

func TestTokenCleanup(t *testing.T) {
	cleaner := &stubCleaner{}
	job := NewTokenCleanup(cleaner)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if cleaner.calls != 1 {
		t.Errorf("calls = %d, want 1", cleaner.calls)
	}

	cleaner.err = errors.New("db down")
	if err := job.Run(context.Background()); !errors.Is(err, cleaner.err) {
		t.Errorf("Run() error = %v, want wrapped %v", err, cleaner.err)
	}
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(time.Second)
	cleaner := &stubCleaner{}

	if err := s.Register("not a spec", NewTokenCleanup(cleaner)); err == nil {
		t.Error("Register() with invalid spec succeeded")
	}
	if err := s.Register("", NewTokenCleanup(cleaner)); err != nil {
		t.Errorf("Register() with empty spec error = %v", err)
	}
	if err := s.RunNow(context.Background(), "token_cleanup"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("RunNow() on disabled job error = %v, want ErrNotFound", err)
	}

	if err := s.Register("@every 1h", NewTokenCleanup(cleaner)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next()
	if next["token_cleanup"].IsZero() {
		t.Error("scheduled job has no next run")
	}

	if err := s.RunNow(context.Background(), "token_cleanup"); err != nil {
		t.Errorf("RunNow() error = %v", err)
	}
	if cleaner.calls != 1 {
		t.Errorf("calls = %d, want 1", cleaner.calls)
	}
}
