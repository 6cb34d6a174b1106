// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package document

import (
	"context"
	"fmt"
	"time"

	"pagesmith/internal/models"
)

// ChangeKind names a store mutation.
type ChangeKind string

const (
	ChangePageCreated       ChangeKind = "page.created"
	ChangePageLoaded        ChangeKind = "page.loaded"
	ChangePageSaved         ChangeKind = "page.saved"
	ChangePageDeleted       ChangeKind = "page.deleted"
	ChangePageUpdated       ChangeKind = "page.updated"
	ChangeBrandUpdated      ChangeKind = "brand.updated"
	ChangeSectionAdded      ChangeKind = "section.added"
	ChangeSectionUpdated    ChangeKind = "section.updated"
	ChangeSectionRemoved    ChangeKind = "section.removed"
	ChangeSectionsReordered ChangeKind = "sections.reordered"
	ChangeSectionDuplicated ChangeKind = "section.duplicated"
	ChangeSelection         ChangeKind = "selection"
	ChangeRestored          ChangeKind = "restored"
)

// Change describes one mutation. Changes to the page collection are also
// kept in the changelog until the next successful Flush.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	PageID    string     `json:"pageId,omitempty"`
	SectionID string     `json:"sectionId,omitempty"`
	At        time.Time  `json:"at"`
}

// event builds a change notification. Callers hold s.mu.
func (s *Store) event(kind ChangeKind, pageID, sectionID string) Change {
	return Change{Kind: kind, PageID: pageID, SectionID: sectionID, At: s.now()}
}

// record builds a change and appends it to the changelog. Callers hold s.mu.
func (s *Store) record(kind ChangeKind, pageID, sectionID string) Change {
	c := s.event(kind, pageID, sectionID)
	s.changes = append(s.changes, c)
	return c
}

// Pending returns the collection changes not yet flushed.
func (s *Store) Pending() []Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Change, len(s.changes))
	copy(out, s.changes)
	return out
}

// Dirty reports whether the changelog holds unflushed changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.changes) > 0
}

// Flush writes the page collection to the repository when the changelog is
// not empty. On success the flushed changes are dropped; on failure they
// stay pending and the error is returned.
func (s *Store) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	n := len(s.changes)
	pages := clonePages(s.pages)
	s.mu.RUnlock()

	if n == 0 {
		return nil
	}
	if s.repo != nil {
		if err := s.repo.SavePages(ctx, pages); err != nil {
			return fmt.Errorf("flush pages: %w", err)
		}
	}

	s.mu.Lock()
	if n > len(s.changes) {
		n = len(s.changes)
	}
	s.changes = append([]Change(nil), s.changes[n:]...)
	s.mu.Unlock()
	return nil
}

// Restore replaces the page collection with the repository's contents. The
// active page, selection, transient flags and changelog start empty.
func (s *Store) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	pages, err := s.loadPages(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	c := s.replacePages(pages)
	s.mu.Unlock()

	s.publish(c)
	return nil
}

// RestoreIfIdle reloads the page collection like Restore, but only when no
// page is open and nothing is pending at the moment of the swap. It reports
// whether the collection was replaced.
func (s *Store) RestoreIfIdle(ctx context.Context) (bool, error) {
	if s.repo == nil {
		return false, nil
	}
	pages, err := s.loadPages(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.active != nil || len(s.changes) > 0 {
		s.mu.Unlock()
		return false, nil
	}
	c := s.replacePages(pages)
	s.mu.Unlock()

	s.publish(c)
	return true, nil
}

func (s *Store) loadPages(ctx context.Context) ([]models.Page, error) {
	pages, err := s.repo.LoadPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore pages: %w", err)
	}
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("restore pages: duplicate or empty id %q: %w", p.ID, ErrCorruptState)
		}
		seen[p.ID] = true
	}
	if pages == nil {
		pages = []models.Page{}
	}
	return pages, nil
}

// replacePages installs pages and resets the editor state. Callers hold s.mu.
func (s *Store) replacePages(pages []models.Page) Change {
	s.pages = pages
	s.active = nil
	s.selected = ""
	s.dragging = false
	s.generating = make(map[string]int)
	s.changes = nil
	return s.event(ChangeRestored, "", "")
}

// Subscribe registers a listener for change notifications. Delivery never
// blocks the store: when the buffer is full the change is dropped for that
// subscriber. The returned function unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once bool
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if once {
			return
		}
		once = true
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) publish(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
