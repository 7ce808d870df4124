package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// taskTimeout bounds a single scheduled run.
const taskTimeout = 2 * time.Minute

type NotifyFunc func(data any)

// TaskFunc represents a runnable task.
type TaskFunc func(ctx context.Context) error

// Scheduler runs Task on a cron schedule. An empty schedule disables it
// without stopping the loop, so it can be re-enabled on config reload.
type Scheduler struct {
	OnError NotifyFunc // called on task error
	Task    TaskFunc   // task callback

	parser cron.Parser

	expr     string
	schedule cron.Schedule
	nextRun  time.Time
	lastRun  time.Time
	lastErr  error

	mu      sync.Mutex
	running bool
	taskMu  sync.Mutex

	// wakeCh tells the loop to re-read the schedule. One pending wake is
	// enough since the loop always reads the latest schedule.
	wakeCh chan struct{}
	stopCh chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(task TaskFunc, onError NotifyFunc) *Scheduler {
	if task == nil {
		panic("task function cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		OnError:   onError,
		Task:      task,
		parser:    cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		wakeCh:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	return s
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
		s.cancel()
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.runScheduled()
}

// Schedule replaces the cron expression. An empty expression disables
// scheduled runs.
func (s *Scheduler) Schedule(cronExpr string) error {
	var sh cron.Schedule
	if cronExpr != "" {
		var err error
		sh, err = s.parser.Parse(cronExpr)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.expr = cronExpr
	s.setScheduleLocked(sh)
	s.mu.Unlock()

	select {
	case s.wakeCh <- struct{}{}:
	default:
		logrus.Debug("scheduler wake already pending")
	}
	return nil
}

// RunNow runs the task synchronously, outside the schedule. Runs never
// overlap.
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.taskMu.Lock()
	defer s.taskMu.Unlock()

	err := s.Task(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.sendError(fmt.Errorf("task failed: %w", err))
	}
	return err
}

func (s *Scheduler) Status() (nextRun time.Time, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextRun = s.nextRun
	running = s.running
	return
}

// LastRun returns when the task last finished and its error.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastRun, s.lastErr
}

func (s *Scheduler) Expr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.expr
}

func (s *Scheduler) runScheduled() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		logrus.Debug("scheduler stopped")
	}()

	logrus.Debug("scheduler started")

	for {
		schedule, nextRun := s.snapshot()
		var timer *time.Timer
		if schedule == nil || nextRun.IsZero() {
			timer = time.NewTimer(time.Hour * 10000)
		} else {
			wait := time.Until(nextRun)
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
		}

		select {
		case <-timer.C:
			if schedule == nil || nextRun.IsZero() {
				continue
			}

			logrus.Debugf("running scheduled task at %s", nextRun.Format(time.DateTime))
			go func() {
				ctx, cancel := context.WithTimeout(s.ctx, taskTimeout)
				defer cancel()
				_ = s.RunNow(ctx)
			}()
			s.advanceNextRun()
		case <-s.stopCh:
			timer.Stop()
			return
		case <-s.wakeCh:
			timer.Stop()
			logrus.Debug("refresh schedule changed")
		}
	}
}

// setScheduleLocked must be called with mu held.
func (s *Scheduler) setScheduleLocked(sh cron.Schedule) {
	s.schedule = sh
	if sh == nil {
		s.nextRun = time.Time{}
		return
	}
	s.nextRun = sh.Next(time.Now())
}

func (s *Scheduler) snapshot() (cron.Schedule, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule, s.nextRun
}

func (s *Scheduler) advanceNextRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return
	}
	s.nextRun = s.schedule.Next(time.Now())
}

func (s *Scheduler) sendError(err error) {
	if s.OnError == nil {
		return
	}

	go s.OnError(err)
}
