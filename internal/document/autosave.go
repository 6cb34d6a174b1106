package document

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Autosaver flushes the store's changelog on a fixed schedule.
type Autosaver struct {
	store   *Store
	cron    *cron.Cron
	timeout time.Duration
}

// NewAutosaver schedules a flush every interval. Call Start to begin.
func NewAutosaver(store *Store, interval time.Duration) (*Autosaver, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("autosave interval %s is below one second", interval)
	}
	a := &Autosaver{
		store:   store,
		cron:    cron.New(),
		timeout: 10 * time.Second,
	}
	if _, err := a.cron.AddFunc(fmt.Sprintf("@every %s", interval), a.run); err != nil {
		return nil, fmt.Errorf("schedule autosave: %w", err)
	}
	return a, nil
}

// Start runs the schedule in the background.
func (a *Autosaver) Start() {
	a.cron.Start()
}

// Stop waits for a running flush to finish, then flushes one last time.
func (a *Autosaver) Stop(ctx context.Context) error {
	<-a.cron.Stop().Done()
	return a.store.Flush(ctx)
}

func (a *Autosaver) run() {
	if !a.store.Dirty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	pending := len(a.store.Pending())
	if err := a.store.Flush(ctx); err != nil {
		slog.Error("autosave failed", "pending", pending, "error", err)
		return
	}
	slog.Debug("autosave flushed", "changes", pending)
}
