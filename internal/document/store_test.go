package document

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"pagesmith/internal/models"
)

// memRepo is an in-memory PageRepository.
type memRepo struct {
	pages   []models.Page
	saves   int
	saveErr error
	loadErr error
}

func (r *memRepo) LoadPages(ctx context.Context) ([]models.Page, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]models.Page, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *memRepo) SavePages(ctx context.Context, pages []models.Page) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.pages = pages
	return nil
}

// newTestStore returns a store with sequential ids and a fixed clock.
func newTestStore(repo PageRepository) *Store {
	n := 0
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(Options{
		Repository: repo,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
}

func orders(p models.Page) []int {
	var out []int
	for _, s := range p.Ordered() {
		out = append(out, s.Order)
	}
	return out
}

func ids(sections []models.Section) []string {
	var out []string
	for _, s := range sections {
		out = append(out, s.ID)
	}
	return out
}

func active(t *testing.T, s *Store) models.Page {
	t.Helper()
	p, ok := s.ActivePage()
	if !ok {
		t.Fatal("no active page")
	}
	return p
}

func TestCreatePage(t *testing.T) {
	s := newTestStore(nil)

	p := s.CreatePage("Demo")
	if p.Name != "Demo" {
		t.Errorf("Name = %q, want %q", p.Name, "Demo")
	}
	if len(p.Sections) != 0 {
		t.Errorf("new page has %d sections, want 0", len(p.Sections))
	}
	if p.Brand != models.DefaultBrandSettings() {
		t.Errorf("Brand = %+v, want defaults", p.Brand)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Errorf("timestamps not initialised: created %v updated %v", p.CreatedAt, p.UpdatedAt)
	}
	if got := active(t, s); got.ID != p.ID {
		t.Errorf("active page = %q, want %q", got.ID, p.ID)
	}

	empty := s.CreatePage("")
	if empty.ID == p.ID {
		t.Error("page ids are not unique")
	}
	if n := len(s.Pages()); n != 2 {
		t.Errorf("collection has %d pages, want 2", n)
	}
}

// TestScenarioDemoPage walks through the add/remove/reorder/duplicate flow.
func TestScenarioDemoPage(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("Demo")

	hero, err := s.AddSection(models.SectionHero, models.HeroContent{Headline: "Hi"})
	if err != nil {
		t.Fatalf("AddSection hero: %v", err)
	}
	features, err := s.AddSection(models.SectionFeatures, nil)
	if err != nil {
		t.Fatalf("AddSection features: %v", err)
	}

	p := active(t, s)
	if got := ids(p.Ordered()); !reflect.DeepEqual(got, []string{hero.ID, features.ID}) {
		t.Errorf("section ids = %v, want creation order", got)
	}
	if got := orders(p); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("orders = %v, want [0 1]", got)
	}

	if err := s.RemoveSection(hero.ID); err != nil {
		t.Fatalf("RemoveSection: %v", err)
	}
	p = active(t, s)
	if len(p.Sections) != 1 || p.Sections[0].ID != features.ID || p.Sections[0].Order != 0 {
		t.Fatalf("after remove sections = %+v, want features at order 0", p.Sections)
	}

	if err := s.ReorderSections(0, 0); err != nil {
		t.Fatalf("ReorderSections(0, 0): %v", err)
	}
	if after := active(t, s); !reflect.DeepEqual(after, p) {
		t.Error("single-element reorder changed the page")
	}

	dup, err := s.DuplicateSection(features.ID)
	if err != nil {
		t.Fatalf("DuplicateSection: %v", err)
	}
	p = active(t, s)
	if len(p.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(p.Sections))
	}
	if dup.ID == features.ID {
		t.Error("duplicate reuses the original id")
	}
	if got := orders(p); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("orders = %v, want [0 1]", got)
	}
	for _, sec := range p.Sections {
		if sec.Type != models.SectionFeatures {
			t.Errorf("section %s type = %q, want features", sec.ID, sec.Type)
		}
	}
	if !reflect.DeepEqual(p.Sections[0].Data, p.Sections[1].Data) {
		t.Error("duplicate data differs from original")
	}
}

func TestAddSectionOrdersAreDense(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")

	types := models.SectionTypes()
	for i, st := range types {
		sec, err := s.AddSection(st, nil)
		if err != nil {
			t.Fatalf("AddSection(%q): %v", st, err)
		}
		if sec.Order != i {
			t.Errorf("section %d order = %d", i, sec.Order)
		}
		if sec.Style != (models.SectionStyle{}) {
			t.Errorf("new section has style %+v, want empty", sec.Style)
		}
	}
	p := active(t, s)
	for i, o := range orders(p) {
		if o != i {
			t.Fatalf("orders = %v, want 0..%d", orders(p), len(types)-1)
		}
	}
	if s.SelectedSection() != "" {
		t.Error("AddSection selected the new section")
	}
	if len(s.Pages()[0].Sections) != 0 {
		t.Error("AddSection saved into the collection")
	}
}

func TestAddSectionErrors(t *testing.T) {
	s := newTestStore(nil)
	if _, err := s.AddSection(models.SectionHero, nil); !errors.Is(err, ErrNoActivePage) {
		t.Errorf("without active page: err = %v, want ErrNoActivePage", err)
	}
	s.CreatePage("p")
	if _, err := s.AddSection("banner", nil); !errors.Is(err, ErrUnknownSectionType) {
		t.Errorf("unknown type: err = %v, want ErrUnknownSectionType", err)
	}
	if n := len(active(t, s).Sections); n != 0 {
		t.Errorf("failed adds left %d sections", n)
	}
}

// TestReorderMatchesArrayMove checks every (from, to) pair for several list
// lengths against a plain remove-and-reinsert.
func TestReorderMatchesArrayMove(t *testing.T) {
	for n := 2; n <= 5; n++ {
		for from := 0; from < n; from++ {
			for to := 0; to < n; to++ {
				t.Run(fmt.Sprintf("n=%d/%d->%d", n, from, to), func(t *testing.T) {
					s := newTestStore(nil)
					s.CreatePage("p")
					var want []string
					for i := 0; i < n; i++ {
						sec, err := s.AddSection(models.SectionCTA, nil)
						if err != nil {
							t.Fatalf("AddSection: %v", err)
						}
						want = append(want, sec.ID)
					}

					moved := want[from]
					want = append(want[:from:from], want[from+1:]...)
					want = append(want[:to:to], append([]string{moved}, want[to:]...)...)

					if err := s.ReorderSections(from, to); err != nil {
						t.Fatalf("ReorderSections: %v", err)
					}
					p := active(t, s)
					if got := ids(p.Ordered()); !reflect.DeepEqual(got, want) {
						t.Errorf("order = %v, want %v", got, want)
					}
					for i, o := range orders(p) {
						if o != i {
							t.Errorf("orders not dense: %v", orders(p))
							break
						}
					}
				})
			}
		}
	}
}

func TestReorderOutOfRange(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")
	s.AddSection(models.SectionHero, nil)
	s.AddSection(models.SectionCTA, nil)
	before := active(t, s)

	tests := []struct {
		name     string
		from, to int
	}{
		{name: "negative from", from: -1, to: 0},
		{name: "from past end", from: 2, to: 0},
		{name: "to past end", from: 0, to: 2},
		{name: "negative to", from: 1, to: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ReorderSections(tt.from, tt.to)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("err = %v, want ErrIndexOutOfRange", err)
			}
			if after := active(t, s); !reflect.DeepEqual(after, before) {
				t.Error("failed reorder mutated the page")
			}
		})
	}
}

func TestRemoveSectionKeepsRank(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")
	var all []string
	for i := 0; i < 5; i++ {
		sec, _ := s.AddSection(models.SectionFAQ, nil)
		all = append(all, sec.ID)
	}
	s.SelectSection(all[2])

	if err := s.RemoveSection(all[2]); err != nil {
		t.Fatalf("RemoveSection: %v", err)
	}
	p := active(t, s)
	want := []string{all[0], all[1], all[3], all[4]}
	if got := ids(p.Ordered()); !reflect.DeepEqual(got, want) {
		t.Errorf("remaining = %v, want %v", got, want)
	}
	if got := orders(p); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("orders = %v, want [0 1 2 3]", got)
	}
	if s.SelectedSection() != "" {
		t.Error("selection not cleared after removing the selected section")
	}

	s.SelectSection(all[0])
	if err := s.RemoveSection(all[4]); err != nil {
		t.Fatalf("RemoveSection: %v", err)
	}
	if s.SelectedSection() != all[0] {
		t.Error("removing another section cleared the selection")
	}
}

// TestUnknownIDsLeaveStateUnchanged covers every operation that looks up
// a section or page by id.
func TestUnknownIDsLeaveStateUnchanged(t *testing.T) {
	s := newTestStore(nil)
	first := s.CreatePage("first")
	s.AddSection(models.SectionHero, nil)
	before := s.Snapshot()

	data := models.HeroContent{Headline: "x"}
	checks := []struct {
		name string
		run  func() error
		want error
	}{
		{name: "update section", run: func() error { return s.UpdateSection("missing", SectionUpdate{Data: data}) }, want: ErrSectionNotFound},
		{name: "remove section", run: func() error { return s.RemoveSection("missing") }, want: ErrSectionNotFound},
		{name: "duplicate section", run: func() error { _, err := s.DuplicateSection("missing"); return err }, want: ErrSectionNotFound},
		{name: "load page", run: func() error { return s.LoadPage("missing") }, want: ErrPageNotFound},
		{name: "delete page", run: func() error { return s.DeletePage("missing") }, want: ErrPageNotFound},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if err := c.run(); !errors.Is(err, c.want) {
				t.Errorf("err = %v, want %v", err, c.want)
			}
			if after := s.Snapshot(); !reflect.DeepEqual(after, before) {
				t.Error("state changed")
			}
		})
	}
	if got := active(t, s); got.ID != first.ID {
		t.Errorf("active page = %q, want %q", got.ID, first.ID)
	}
}

func TestUpdateSectionReplacesDataWholesale(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")
	sec, _ := s.AddSection(models.SectionHero, models.HeroContent{Headline: "old", Subheadline: "keep?"})

	style := models.SectionStyle{BackgroundColor: "#000"}
	err := s.UpdateSection(sec.ID, SectionUpdate{
		Data:  models.HeroContent{Headline: "new"},
		Style: &style,
	})
	if err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}

	got, _ := active(t, s).Section(sec.ID)
	if want := (models.HeroContent{Headline: "new"}); !reflect.DeepEqual(got.Data, want) {
		t.Errorf("Data = %+v, want %+v", got.Data, want)
	}
	if got.Style != style {
		t.Errorf("Style = %+v, want %+v", got.Style, style)
	}
	if got.Order != sec.Order || got.Type != sec.Type {
		t.Error("fields absent from the update changed")
	}

	if err := s.UpdateSection(sec.ID, SectionUpdate{}); err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if again, _ := active(t, s).Section(sec.ID); !reflect.DeepEqual(again, got) {
		t.Error("empty update changed the section")
	}
}

func TestLoadPageIsWorkingCopy(t *testing.T) {
	s := newTestStore(nil)
	a := s.CreatePage("a")
	s.AddSection(models.SectionHero, nil)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.CreatePage("b")

	if err := s.LoadPage(a.ID); err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	s.AddSection(models.SectionCTA, nil)

	stored, _ := s.Page(a.ID)
	if len(stored.Sections) != 1 {
		t.Errorf("stored page has %d sections before save, want 1", len(stored.Sections))
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, _ = s.Page(a.ID)
	if len(stored.Sections) != 2 {
		t.Errorf("stored page has %d sections after save, want 2", len(stored.Sections))
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")
	s.AddSection(models.SectionHero, nil)

	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first := s.Pages()
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := s.Pages()

	if !second[0].UpdatedAt.After(first[0].UpdatedAt) {
		t.Error("Save did not refresh UpdatedAt")
	}
	second[0].UpdatedAt = first[0].UpdatedAt
	if !reflect.DeepEqual(first, second) {
		t.Error("second Save changed the collection beyond the timestamp")
	}
}

func TestSaveWithoutActivePage(t *testing.T) {
	s := newTestStore(nil)
	if err := s.Save(); !errors.Is(err, ErrNoActivePage) {
		t.Errorf("err = %v, want ErrNoActivePage", err)
	}
}

func TestDeleteActivePageClearsIt(t *testing.T) {
	s := newTestStore(nil)
	p := s.CreatePage("p")
	sec, _ := s.AddSection(models.SectionHero, nil)
	s.SelectSection(sec.ID)

	if err := s.DeletePage(p.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, ok := s.ActivePage(); ok {
		t.Error("active page still set after deleting it")
	}
	if s.SelectedSection() != "" {
		t.Error("selection survived deleting the active page")
	}
	if n := len(s.Pages()); n != 0 {
		t.Errorf("collection has %d pages, want 0", n)
	}
}

func TestUpdateBrandSettingsMerges(t *testing.T) {
	s := newTestStore(nil)
	s.CreatePage("p")
	font := "Playfair Display"
	if err := s.UpdateBrandSettings(models.BrandUpdate{HeadingFont: &font}); err != nil {
		t.Fatalf("UpdateBrandSettings: %v", err)
	}
	b := active(t, s).Brand
	if b.HeadingFont != font {
		t.Errorf("HeadingFont = %q, want %q", b.HeadingFont, font)
	}
	if b.BodyFont != models.DefaultBrandSettings().BodyFont {
		t.Errorf("BodyFont changed to %q", b.BodyFont)
	}
}

func TestFlushRestoreRoundTrip(t *testing.T) {
	repo := &memRepo{}
	s := newTestStore(repo)
	s.CreatePage("first")
	s.AddSection(models.SectionHero, models.HeroContent{Headline: "Hi"})
	s.AddSection(models.SectionPricing, nil)
	campaign := models.CampaignBrief{Audience: "founders"}
	s.UpdateBrandSettings(models.BrandUpdate{Campaign: &campaign})
	s.UpdatePageMeta(models.PageMetaUpdate{SEO: &models.SEO{Title: "T"}})
	s.Save()
	s.CreatePage("second")

	if !s.Dirty() {
		t.Fatal("store not dirty after collection changes")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if s.Dirty() {
		t.Error("changelog not cleared by Flush")
	}

	restored := newTestStore(repo)
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !reflect.DeepEqual(restored.Pages(), s.Pages()) {
		t.Errorf("restored pages differ:\n got %+v\nwant %+v", restored.Pages(), s.Pages())
	}
	if _, ok := restored.ActivePage(); ok {
		t.Error("active page restored; it must start empty")
	}
}

func TestFlushFailureKeepsChangelog(t *testing.T) {
	repo := &memRepo{saveErr: errors.New("disk full")}
	s := newTestStore(repo)
	s.CreatePage("p")

	if err := s.Flush(context.Background()); err == nil {
		t.Fatal("Flush succeeded with failing repository")
	}
	if got := len(s.Pending()); got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}

	repo.saveErr = nil
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if s.Dirty() {
		t.Error("store still dirty after successful flush")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("clean Flush: %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("repository written %d times, want 1", repo.saves)
	}
}

func TestSectionEditsAreNotPending(t *testing.T) {
	s := newTestStore(&memRepo{})
	s.CreatePage("p")
	s.Flush(context.Background())

	s.AddSection(models.SectionHero, nil)
	s.SelectSection("x")
	if s.Dirty() {
		t.Error("working-copy edits entered the changelog")
	}
}

func TestRestoreRejectsDuplicateIDs(t *testing.T) {
	repo := &memRepo{pages: []models.Page{{ID: "a"}, {ID: "a"}}}
	s := newTestStore(repo)
	if err := s.Restore(context.Background()); !errors.Is(err, ErrCorruptState) {
		t.Errorf("err = %v, want ErrCorruptState", err)
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	s := newTestStore(nil)
	ch, cancel := s.Subscribe(8)
	defer cancel()

	p := s.CreatePage("p")
	s.AddSection(models.SectionHero, nil)

	want := []Change{
		{Kind: ChangePageCreated, PageID: p.ID},
		{Kind: ChangeSectionAdded, PageID: p.ID},
	}
	for _, w := range want {
		select {
		case got := <-ch:
			if got.Kind != w.Kind || got.PageID != w.PageID {
				t.Errorf("change = %+v, want kind %s page %s", got, w.Kind, w.PageID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s", w.Kind)
		}
	}
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
}
