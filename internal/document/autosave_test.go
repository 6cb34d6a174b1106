package document

import (
	"context"
	"testing"
	"time"

	"pagesmith/internal/models"
)

func TestNewAutosaverRejectsShortInterval(t *testing.T) {
	if _, err := NewAutosaver(newTestStore(nil), 10*time.Millisecond); err == nil {
		t.Error("expected error for sub-second interval")
	}
}

func TestAutosaverStopFlushes(t *testing.T) {
	repo := &memRepo{}
	s := newTestStore(repo)
	a, err := NewAutosaver(s, time.Hour)
	if err != nil {
		t.Fatalf("NewAutosaver: %v", err)
	}
	a.Start()

	s.CreatePage("p")
	s.AddSection(models.SectionHero, nil)
	s.Save()

	if err := a.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(repo.pages) != 1 || len(repo.pages[0].Sections) != 1 {
		t.Errorf("repository holds %+v, want one page with one section", repo.pages)
	}
}

func TestAutosaverRunSkipsCleanStore(t *testing.T) {
	repo := &memRepo{}
	a, err := NewAutosaver(newTestStore(repo), time.Minute)
	if err != nil {
		t.Fatalf("NewAutosaver: %v", err)
	}
	a.run()
	if repo.saves != 0 {
		t.Errorf("clean store flushed %d times", repo.saves)
	}
}
