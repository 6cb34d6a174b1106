package document

import (
	"fmt"

	"pagesmith/internal/models"
)

// Ticket identifies the page and section an asynchronous generation request
// was started for.
type Ticket struct {
	PageID    string `json:"pageId"`
	SectionID string `json:"sectionId"`
}

// BeginGeneration marks a section of the active page as generating and
// returns the ticket its result must be applied with.
func (s *Store) BeginGeneration(sectionID string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return Ticket{}, ErrNoActivePage
	}
	if sectionIndex(s.active.Sections, sectionID) < 0 {
		return Ticket{}, fmt.Errorf("generate %q: %w", sectionID, ErrSectionNotFound)
	}
	s.generating[sectionID]++
	return Ticket{PageID: s.active.ID, SectionID: sectionID}, nil
}

// EndGeneration releases the ticket. The section stops reporting as
// generating once every ticket for it has ended.
func (s *Store) EndGeneration(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating[t.SectionID] <= 1 {
		delete(s.generating, t.SectionID)
		return
	}
	s.generating[t.SectionID]--
}

// ApplyGenerated replaces the data of the ticket's section with c, decoded
// against the section's current type. The
// result is discarded with ErrStaleGeneration when the ticket's page is no
// longer active or the section has been removed in the meantime.
func (s *Store) ApplyGenerated(t Ticket, c models.Content) error {
	s.mu.Lock()
	if s.active == nil || s.active.ID != t.PageID {
		s.mu.Unlock()
		return fmt.Errorf("apply to page %q: %w", t.PageID, ErrStaleGeneration)
	}
	i := sectionIndex(s.active.Sections, t.SectionID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("apply to section %q: %w", t.SectionID, ErrStaleGeneration)
	}
	s.active.Sections[i].Data = models.ConvertContent(s.active.Sections[i].Type, c)
	change := s.event(ChangeSectionUpdated, t.PageID, t.SectionID)
	s.mu.Unlock()

	s.publish(change)
	return nil
}
