package index

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/starford/daybook/internal/dates"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_ResyncsOnSave(t *testing.T) {
	db := testDB(t)
	j := testJournal(t, "# 2026/01/10\n- plain\n")
	if _, err := Sync(db, j, quietLogger()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var calls []string
	go Watch(ctx, db, j, quietLogger(), func(path string) {
		mu.Lock()
		calls = append(calls, path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	if err := j.Save(fixture); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		got, _ := db.LaterEntries(j.Path(), dates.Of(2026, 1, 14))
		return len(got) == 1
	}, "journal save not picked up by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) > 0 && calls[0] == j.Path()
	}, "callback not called with journal path")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	db := testDB(t)
	j := testJournal(t, fixture)
	if _, err := Sync(db, j, quietLogger()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	go Watch(ctx, db, j, quietLogger(), func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(j.Path()+".bak", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("callback called %d times for an unrelated file", calls)
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	db := testDB(t)
	j := testJournal(t, fixture)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, db, j, quietLogger(), nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not return after cancel")
	}
}
