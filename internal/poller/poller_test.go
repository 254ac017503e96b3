package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTicker — ticker piloté manuellement par les tests.
type fakeTicker struct {
	ch chan time.Time
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time)}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

// Tick déclenche un tick et attend sa prise en compte.
func (f *fakeTicker) Tick() {
	f.ch <- time.Now()
}

// counterTask compte ses exécutions de manière thread-safe.
type counterTask struct {
	mu    sync.Mutex
	count int
	err   error
	// ran : signale chaque exécution
	ran chan struct{}
}

func newCounterTask(err error) *counterTask {
	return &counterTask{err: err, ran: make(chan struct{}, 16)}
}

func (c *counterTask) Run(ctx context.Context) error {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	c.ran <- struct{}{}
	return c.err
}

func (c *counterTask) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func waitRun(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("la tâche n'a pas été exécutée")
	}
}

func TestPollerRunsTasksOnTick(t *testing.T) {
	ticker := newFakeTicker()
	task := newCounterTask(nil)

	p := New(3*time.Second, func(d time.Duration) Ticker { return ticker },
		[]Task{{Name: "statistiques", Run: task.Run}}, nil, testLogger())

	p.Start(context.Background())
	defer p.Stop()

	ticker.Tick()
	waitRun(t, task.ran)
	ticker.Tick()
	waitRun(t, task.ran)

	if got := task.Count(); got != 2 {
		t.Errorf("exécutions = %d, attendu 2", got)
	}
}

func TestPollerRunsAllTasksEachTick(t *testing.T) {
	ticker := newFakeTicker()
	stats := newCounterTask(nil)
	favoris := newCounterTask(nil)

	p := New(3*time.Second, func(d time.Duration) Ticker { return ticker },
		[]Task{
			{Name: "statistiques", Run: stats.Run},
			{Name: "favoris", Run: favoris.Run},
		}, nil, testLogger())

	p.Start(context.Background())
	defer p.Stop()

	ticker.Tick()
	waitRun(t, stats.ran)
	waitRun(t, favoris.ran)

	if stats.Count() != 1 || favoris.Count() != 1 {
		t.Errorf("exécutions = %d/%d, chaque vue doit être rafraîchie à chaque tick",
			stats.Count(), favoris.Count())
	}
}

func TestPollerTaskErrorDoesNotStopLoop(t *testing.T) {
	ticker := newFakeTicker()
	failing := newCounterTask(errors.New("API indisponible"))
	ok := newCounterTask(nil)

	p := New(3*time.Second, func(d time.Duration) Ticker { return ticker },
		[]Task{
			{Name: "statistiques", Run: failing.Run},
			{Name: "favoris", Run: ok.Run},
		}, nil, testLogger())

	p.Start(context.Background())
	defer p.Stop()

	ticker.Tick()
	waitRun(t, failing.ran)
	waitRun(t, ok.ran)
	ticker.Tick()
	waitRun(t, failing.ran)
	waitRun(t, ok.ran)

	if failing.Count() != 2 || ok.Count() != 2 {
		t.Error("un échec de tâche ne doit pas arrêter la boucle")
	}
}

func TestPollerStopPreventsFurtherTicks(t *testing.T) {
	ticker := newFakeTicker()
	task := newCounterTask(nil)

	p := New(3*time.Second, func(d time.Duration) Ticker { return ticker },
		[]Task{{Name: "statistiques", Run: task.Run}}, nil, testLogger())

	p.Start(context.Background())
	ticker.Tick()
	waitRun(t, task.ran)

	p.Stop()
	before := task.Count()

	// Un tick après Stop ne doit déclencher aucune exécution : la
	// boucle est terminée, personne ne lit le canal.
	select {
	case ticker.ch <- time.Now():
		t.Fatal("le ticker ne doit plus être consommé après Stop")
	case <-time.After(50 * time.Millisecond):
	}

	if got := task.Count(); got != before {
		t.Errorf("exécutions après Stop : %d, attendu %d", got, before)
	}
}

type fakeRecorder struct {
	mu    sync.Mutex
	views []string
}

func (f *fakeRecorder) RecordRefresh(ctx context.Context, view string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, view)
	return nil
}

func (f *fakeRecorder) Views() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.views...)
}

func TestPollerRecordsSuccessfulRefreshes(t *testing.T) {
	ticker := newFakeTicker()
	ok := newCounterTask(nil)
	failing := newCounterTask(errors.New("API indisponible"))
	rec := &fakeRecorder{}

	p := New(3*time.Second, func(d time.Duration) Ticker { return ticker },
		[]Task{
			{Name: "statistiques", Run: ok.Run},
			{Name: "favoris", Run: failing.Run},
		}, rec, testLogger())

	p.Start(context.Background())
	ticker.Tick()
	waitRun(t, ok.ran)
	waitRun(t, failing.ran)
	p.Stop()

	views := rec.Views()
	if len(views) != 1 || views[0] != "statistiques" {
		t.Errorf("vues enregistrées = %v, seul un rafraîchissement réussi est consigné", views)
	}
}
