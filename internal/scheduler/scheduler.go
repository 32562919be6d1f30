package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Task is a scheduled job that can be cancelled. Cancel is idempotent.
type Task interface {
	Cancel()
}

// Timers arms recurring and one-shot tasks. The caller owns every Task it
// gets back and must cancel it on teardown.
type Timers interface {
	Every(d time.Duration, fn func()) Task
	After(d time.Duration, fn func()) Task
}

// CronTimers runs recurring tasks on a cron runner and one-shot tasks on
// runtime timers.
type CronTimers struct {
	Cron *cron.Cron
	Log  zerolog.Logger
}

// NewCronTimers creates a CronTimers with second-level schedules enabled.
// Cron's own messages and recovered job panics go to log.
func NewCronTimers(log zerolog.Logger) *CronTimers {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: log}
	return &CronTimers{
		Cron: cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		Log:  log,
	}
}

// cronLogger adapts zerolog to cron.Logger. Cron's info messages are
// per-tick chatter, so they land at debug.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Start starts the cron runner.
func (s *CronTimers) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *CronTimers) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// Every schedules fn every d. Periods under one second are rounded up by cron.
func (s *CronTimers) Every(d time.Duration, fn func()) Task {
	id := s.Cron.Schedule(cron.Every(d), cron.FuncJob(fn))
	s.Log.Debug().Dur("every", d).Int("entry", int(id)).Msg("recurring task armed")
	return &cronTask{cron: s.Cron, id: id}
}

// After runs fn once after d.
func (s *CronTimers) After(d time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(d, fn)}
}

type cronTask struct {
	cron *cron.Cron
	id   cron.EntryID
	once sync.Once
}

func (t *cronTask) Cancel() {
	t.once.Do(func() { t.cron.Remove(t.id) })
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() { t.timer.Stop() }
