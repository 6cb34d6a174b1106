// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package document implements the landing-page document store: the single
// owner of the page collection, the active working copy, the section order
// within it, and the transient editor flags.
//
// Every mutation goes through a Store method. Failed operations return a
// sentinel error and leave the state untouched. Changes to the page
// collection are recorded in a changelog and written to the PageRepository
// only when Flush is called, so persistence failures surface as errors at a
// visible boundary instead of inside a setter.
package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

var (
	ErrPageNotFound       = errors.New("page not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrNoActivePage       = errors.New("no active page")
	ErrIndexOutOfRange    = errors.New("section index out of range")
	ErrUnknownSectionType = errors.New("unknown section type")
	ErrStaleGeneration    = errors.New("generation target no longer exists")
	ErrCorruptState       = errors.New("stored pages are corrupt")
)

// PageRepository persists the page collection as a whole.
type PageRepository interface {
	LoadPages(ctx context.Context) ([]models.Page, error)
	SavePages(ctx context.Context, pages []models.Page) error
}

// Options configures a Store. All fields are optional.
type Options struct {
	// Repository receives the page collection on Flush. Without one the
	// store is memory-only and Flush just clears the changelog.
	Repository PageRepository
	// Now returns the current time. Defaults to time.Now in UTC.
	Now func() time.Time
	// NewID returns a fresh page or section id. Defaults to UUIDv4.
	NewID func() string
}

// Store is the document store. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	pages      []models.Page
	active     *models.Page
	selected   string
	dragging   bool
	generating map[string]int // in-flight generations per section
	changes    []Change

	repo    PageRepository
	flushMu sync.Mutex
	now     func() time.Time
	newID   func() string

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int
}

// New creates an empty store.
func New(opts Options) *Store {
	s := &Store{
		generating: make(map[string]int),
		repo:       opts.Repository,
		now:        opts.Now,
		newID:      opts.NewID,
		subs:       make(map[int]chan Change),
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC().Round(0) }
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	return s
}

// State is a read-only snapshot of the whole store.
type State struct {
	Pages      []models.Page `json:"pages"`
	ActivePage *models.Page  `json:"activePage"`
	Selected   string        `json:"selectedSectionId,omitempty"`
	Dragging   bool          `json:"dragging"`
	Generating []string      `json:"generating"`
	Pending    int           `json:"pendingChanges"`
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Pages:      clonePages(s.pages),
		Selected:   s.selected,
		Dragging:   s.dragging,
		Generating: make([]string, 0, len(s.generating)),
		Pending:    len(s.changes),
	}
	if s.active != nil {
		p := s.active.Clone()
		st.ActivePage = &p
	}
	for id := range s.generating {
		st.Generating = append(st.Generating, id)
	}
	sort.Strings(st.Generating)
	return st
}

// Pages returns a deep copy of the page collection.
func (s *Store) Pages() []models.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePages(s.pages)
}

// Page returns a copy of the stored page with the given id.
func (s *Store) Page(id string) (models.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.pageIndex(id); i >= 0 {
		return s.pages[i].Clone(), true
	}
	return models.Page{}, false
}

// ActivePage returns a copy of the working page.
func (s *Store) ActivePage() (models.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return models.Page{}, false
	}
	return s.active.Clone(), true
}

// SelectedSection returns the id of the selected section, or "".
func (s *Store) SelectedSection() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// CreatePage adds an empty page with default brand settings to the
// collection and makes it the active page.
func (s *Store) CreatePage(name string) models.Page {
	s.mu.Lock()
	now := s.now()
	p := models.Page{
		ID:        s.newID(),
		Name:      name,
		Sections:  []models.Section{},
		Brand:     models.DefaultBrandSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.pages = append(s.pages, p.Clone())
	working := p.Clone()
	s.active = &working
	s.selected = ""
	c := s.record(ChangePageCreated, p.ID, "")
	s.mu.Unlock()

	s.publish(c)
	return p
}

// LoadPage makes a working copy of the stored page the active page.
func (s *Store) LoadPage(id string) error {
	s.mu.Lock()
	i := s.pageIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("load %q: %w", id, ErrPageNotFound)
	}
	working := s.pages[i].Clone()
	working.Sections = working.Ordered()
	renumber(working.Sections)
	s.active = &working
	s.selected = ""
	c := s.event(ChangePageLoaded, id, "")
	s.mu.Unlock()

	s.publish(c)
	return nil
}

// Save commits the active page into the collection and refreshes its
// update timestamp. A page deleted since it was loaded is added back.
func (s *Store) Save() error {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return ErrNoActivePage
	}
	s.active.UpdatedAt = s.now()
	committed := s.active.Clone()
	if i := s.pageIndex(committed.ID); i >= 0 {
		s.pages[i] = committed
	} else {
		s.pages = append(s.pages, committed)
	}
	c := s.record(ChangePageSaved, committed.ID, "")
	s.mu.Unlock()

	s.publish(c)
	return nil
}

// DeletePage removes a page from the collection. Deleting the active page
// clears it together with the selection.
func (s *Store) DeletePage(id string) error {
	s.mu.Lock()
	i := s.pageIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete %q: %w", id, ErrPageNotFound)
	}
	s.pages = append(s.pages[:i:i], s.pages[i+1:]...)
	if s.active != nil && s.active.ID == id {
		s.active = nil
		s.selected = ""
		s.generating = make(map[string]int)
	}
	c := s.record(ChangePageDeleted, id, "")
	s.mu.Unlock()

	s.publish(c)
	return nil
}

// UpdatePageMeta merges name, SEO and analytics into the active page.
func (s *Store) UpdatePageMeta(u models.PageMetaUpdate) error {
	return s.mutateActive(ChangePageUpdated, "", func(p *models.Page) error {
		u.Apply(p)
		return nil
	})
}

// UpdateBrandSettings shallow-merges u into the active page's brand.
func (s *Store) UpdateBrandSettings(u models.BrandUpdate) error {
	return s.mutateActive(ChangeBrandUpdated, "", func(p *models.Page) error {
		u.Apply(&p.Brand)
		return nil
	})
}

// AddSection appends a section of type t to the active page. A nil data
// argument selects the type's default content. The new section is neither
// selected nor saved.
func (s *Store) AddSection(t models.SectionType, data models.Content) (models.Section, error) {
	if !t.Valid() {
		return models.Section{}, fmt.Errorf("add %q: %w", t, ErrUnknownSectionType)
	}
	if data == nil {
		data = models.DefaultContent(t)
	}
	data = models.ConvertContent(t, data)

	var added models.Section
	err := s.mutateActive(ChangeSectionAdded, "", func(p *models.Page) error {
		added = models.Section{
			ID:    s.newID(),
			Type:  t,
			Order: len(p.Sections),
			Data:  data,
		}
		p.Sections = append(p.Sections, added)
		return nil
	})
	if err != nil {
		return models.Section{}, err
	}
	return added.Clone(), nil
}

// SectionUpdate is a partial update of a section's top-level fields.
// Data and Style replace the current value wholesale when set. Data is
// always stored as the record for the section's resulting type, so a
// RawContent payload is decoded against that type.
type SectionUpdate struct {
	Type  *models.SectionType
	Data  models.Content
	Style *models.SectionStyle
}

// UpdateSection merges u into the section with the given id.
func (s *Store) UpdateSection(id string, u SectionUpdate) error {
	if u.Type != nil && !u.Type.Valid() {
		return fmt.Errorf("update %q: %w", *u.Type, ErrUnknownSectionType)
	}
	return s.mutateActive(ChangeSectionUpdated, id, func(p *models.Page) error {
		i := sectionIndex(p.Sections, id)
		if i < 0 {
			return fmt.Errorf("update %q: %w", id, ErrSectionNotFound)
		}
		sec := &p.Sections[i]
		t := sec.Type
		if u.Type != nil {
			t = *u.Type
		}
		switch {
		case u.Data != nil:
			sec.Data = models.ConvertContent(t, u.Data)
		case t != sec.Type:
			sec.Data = retype(t, sec.Data)
		}
		sec.Type = t
		if u.Style != nil {
			sec.Style = *u.Style
		}
		return nil
	})
}

// retype carries data over to type t. Content that does not fit the new
// type is replaced by t's default content.
func retype(t models.SectionType, data models.Content) models.Content {
	c := models.ConvertContent(t, data)
	if _, raw := c.(models.RawContent); raw || c == nil {
		return models.DefaultContent(t)
	}
	return c
}

// RemoveSection deletes a section and renumbers the rest densely, keeping
// their relative order. The selection is cleared if it pointed at it.
func (s *Store) RemoveSection(id string) error {
	return s.mutateActive(ChangeSectionRemoved, id, func(p *models.Page) error {
		ordered := p.Ordered()
		i := sectionIndex(ordered, id)
		if i < 0 {
			return fmt.Errorf("remove %q: %w", id, ErrSectionNotFound)
		}
		ordered = append(ordered[:i:i], ordered[i+1:]...)
		renumber(ordered)
		p.Sections = ordered
		if s.selected == id {
			s.selected = ""
		}
		delete(s.generating, id)
		return nil
	})
}

// ReorderSections moves the section at index from of the order-sorted list
// to index to, shifting the sections in between, then renumbers.
func (s *Store) ReorderSections(from, to int) error {
	return s.mutateActive(ChangeSectionsReordered, "", func(p *models.Page) error {
		n := len(p.Sections)
		if from < 0 || from >= n || to < 0 || to >= n {
			return fmt.Errorf("move %d to %d of %d: %w", from, to, n, ErrIndexOutOfRange)
		}
		p.Sections = moveSection(p.Ordered(), from, to)
		renumber(p.Sections)
		return nil
	})
}

// DuplicateSection appends a deep copy of a section with a fresh id at the
// end of the page.
func (s *Store) DuplicateSection(id string) (models.Section, error) {
	var dup models.Section
	err := s.mutateActive(ChangeSectionDuplicated, id, func(p *models.Page) error {
		i := sectionIndex(p.Sections, id)
		if i < 0 {
			return fmt.Errorf("duplicate %q: %w", id, ErrSectionNotFound)
		}
		dup = p.Sections[i].Clone()
		dup.ID = s.newID()
		dup.Order = len(p.Sections)
		p.Sections = append(p.Sections, dup)
		return nil
	})
	if err != nil {
		return models.Section{}, err
	}
	return dup.Clone(), nil
}

// SelectSection sets the selection pointer. An empty id clears it. The id
// is not validated.
func (s *Store) SelectSection(id string) {
	s.mu.Lock()
	s.selected = id
	c := s.event(ChangeSelection, s.activeID(), id)
	s.mu.Unlock()

	s.publish(c)
}

// SetDragging toggles the drag-in-progress flag.
func (s *Store) SetDragging(on bool) {
	s.mu.Lock()
	s.dragging = on
	s.mu.Unlock()
}

// Dragging reports whether a drag is in progress.
func (s *Store) Dragging() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// Generating reports whether content is being generated for a section.
func (s *Store) Generating(sectionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generating[sectionID] > 0
}

// mutateActive runs fn against the active page under the write lock. When
// fn fails the active page is restored from a copy taken beforehand.
func (s *Store) mutateActive(kind ChangeKind, sectionID string, fn func(p *models.Page) error) error {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return ErrNoActivePage
	}
	before := s.active.Clone()
	selected := s.selected
	if err := fn(s.active); err != nil {
		s.active = &before
		s.selected = selected
		s.mu.Unlock()
		return err
	}
	c := s.event(kind, s.active.ID, sectionID)
	s.mu.Unlock()

	s.publish(c)
	return nil
}

func (s *Store) pageIndex(id string) int {
	for i := range s.pages {
		if s.pages[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) activeID() string {
	if s.active == nil {
		return ""
	}
	return s.active.ID
}

func sectionIndex(sections []models.Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

// moveSection removes the element at from and reinserts it at to.
func moveSection(sections []models.Section, from, to int) []models.Section {
	if from == to {
		return sections
	}
	moved := sections[from]
	out := make([]models.Section, 0, len(sections))
	out = append(out, sections[:from]...)
	out = append(out, sections[from+1:]...)
	out = append(out[:to], append([]models.Section{moved}, out[to:]...)...)
	return out
}

func renumber(sections []models.Section) {
	for i := range sections {
		sections[i].Order = i
	}
}

func clonePages(pages []models.Page) []models.Page {
	out := make([]models.Page, len(pages))
	for i, p := range pages {
		out[i] = p.Clone()
	}
	return out
}
