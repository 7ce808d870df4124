package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func TestCronParse(t *testing.T) {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse("@every 10m")
	if err != nil {
		t.Fatalf("failed to parse cron expression: %v", err)
	}

	now := time.Now()
	next1 := schedule.Next(now)
	t.Logf("next1: %v", next1)
	next2 := schedule.Next(next1)
	t.Logf("next2: %v", next2)

	if !next2.After(next1) {
		t.Fatalf("expected next2 to be after next1, got next1=%v next2=%v", next1, next2)
	}
}

func TestSchedulerScheduleStatus(t *testing.T) {
	s := NewScheduler(func(context.Context) error { return nil }, nil)

	if err := s.Schedule("@every 1m"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	next, running := s.Status()
	if running {
		t.Fatalf("scheduler should not be running")
	}
	if next.IsZero() {
		t.Fatalf("next run should be set after scheduling")
	}
	if s.Expr() != "@every 1m" {
		t.Fatalf("unexpected expression %q", s.Expr())
	}

	if err := s.Schedule(""); err != nil {
		t.Fatalf("empty schedule should disable, got error: %v", err)
	}
	if next, _ := s.Status(); !next.IsZero() {
		t.Fatalf("disabled schedule should have no next run, got %v", next)
	}

	if err := s.Schedule("every now and then"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSchedulerRunCycle(t *testing.T) {
	taskCh := make(chan struct{}, 4)
	var runs int32

	task := func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("scheduled task should run with a deadline")
		}
		taskCh <- struct{}{}
		return nil
	}

	s := NewScheduler(task, nil)
	if err := s.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	s.mu.Lock()
	s.nextRun = time.Now().Add(50 * time.Millisecond)
	s.mu.Unlock()

	s.Start()
	defer s.Stop()

	select {
	case <-taskCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("task did not run")
	}

	deadline := time.Now().Add(time.Second)
	for {
		last, err := s.LastRun()
		if !last.IsZero() {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("last run was not recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	next, _ := s.Status()
	if !next.After(time.Now()) {
		t.Fatalf("next run should move into the future, got %v", next)
	}
}

func TestSchedulerReschedule(t *testing.T) {
	taskCh := make(chan struct{}, 4)
	s := NewScheduler(func(context.Context) error {
		taskCh <- struct{}{}
		return nil
	}, nil)
	if err := s.Schedule(""); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	s.Start()
	defer s.Stop()

	select {
	case <-taskCh:
		t.Fatalf("disabled scheduler should not run")
	case <-time.After(100 * time.Millisecond):
	}

	if err := s.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	select {
	case <-taskCh:
	case <-time.After(3 * time.Second):
		t.Fatalf("task did not run after enabling the schedule")
	}
}

func TestSchedulerRunNowError(t *testing.T) {
	errCh := make(chan error, 1)
	onError := func(data any) {
		if err, ok := data.(error); ok {
			errCh <- err
		}
	}

	boom := errors.New("boom")
	s := NewScheduler(func(context.Context) error { return boom }, onError)

	if err := s.RunNow(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, boom) {
			t.Fatalf("unexpected error callback: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected error callback")
	}

	if _, err := s.LastRun(); !errors.Is(err, boom) {
		t.Fatalf("last error should be recorded, got %v", err)
	}
}

func TestSchedulerKeepsLatestOfManyReschedules(t *testing.T) {
	taskCh := make(chan struct{}, 4)
	s := NewScheduler(func(context.Context) error {
		select {
		case taskCh <- struct{}{}:
		default:
		}
		return nil
	}, nil)

	s.Start()
	defer s.Stop()

	for i := 0; i < 10; i++ {
		if err := s.Schedule("@every 1h"); err != nil {
			t.Fatalf("Schedule returned error: %v", err)
		}
	}
	if err := s.Schedule("@every 1s"); err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	if s.Expr() != "@every 1s" {
		t.Fatalf("unexpected expression %q", s.Expr())
	}
	next, _ := s.Status()
	if until := time.Until(next); until > 2*time.Second {
		t.Fatalf("next run should follow the last schedule, got %v away", until)
	}

	select {
	case <-taskCh:
	case <-time.After(3 * time.Second):
		t.Fatalf("task did not run on the last schedule")
	}
}
