package document

import (
	"errors"
	"reflect"
	"testing"

	"pagesmith/internal/models"
)

func TestApplyGenerated(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")
	sec, _ := s.AddSection(models.SectionHero, nil)

	ticket, err := s.BeginGeneration(sec.ID)
	if err != nil {
		t.Fatalf("BeginGeneration: %v", err)
	}
	if !s.Generating(sec.ID) {
		t.Error("generating flag not set")
	}

	want := models.HeroContent{Headline: "Generated"}
	if err := s.ApplyGenerated(ticket, want); err != nil {
		t.Fatalf("ApplyGenerated: %v", err)
	}
	s.EndGeneration(ticket)

	got, _ := active(t, s).Section(sec.ID)
	if !reflect.DeepEqual(got.Data, models.Content(want)) {
		t.Errorf("Data = %+v, want %+v", got.Data, want)
	}
	if s.Generating(sec.ID) {
		t.Error("generating flag not cleared")
	}
}

// TestApplyGeneratedDiscardsStaleResults covers results that arrive after
// the user navigated away or removed the target section.
func TestApplyGeneratedDiscardsStaleResults(t *testing.T) {
	tests := []struct {
		name  string
		after func(s *Store, ticket Ticket)
	}{
		{
			name:  "other page loaded",
			after: func(s *Store, ticket Ticket) { s.CreatePage("other") },
		},
		{
			name:  "section removed",
			after: func(s *Store, ticket Ticket) { s.RemoveSection(ticket.SectionID) },
		},
		{
			name:  "page deleted",
			after: func(s *Store, ticket Ticket) { s.DeletePage(ticket.PageID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(nil)
			s.CreatePage("p")
			sec, _ := s.AddSection(models.SectionHero, nil)
			ticket, err := s.BeginGeneration(sec.ID)
			if err != nil {
				t.Fatalf("BeginGeneration: %v", err)
			}

			tt.after(s, ticket)
			before := s.Snapshot()

			err = s.ApplyGenerated(ticket, models.HeroContent{Headline: "late"})
			if !errors.Is(err, ErrStaleGeneration) {
				t.Errorf("err = %v, want ErrStaleGeneration", err)
			}
			if after := s.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Error("stale result mutated the store")
			}
		})
	}
}

func TestBeginGenerationUnknownSection(t *testing.T) {
	s := newTestStore(nil)
	if _, err := s.BeginGeneration("x"); !errors.Is(err, ErrNoActivePage) {
		t.Errorf("err = %v, want ErrNoActivePage", err)
	}
	s.CreatePage("p")
	if _, err := s.BeginGeneration("x"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("err = %v, want ErrSectionNotFound", err)
	}
}
