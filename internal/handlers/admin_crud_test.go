package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"pagesmith/internal/document"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

func TestCreatePage(t *testing.T) {
	env := newTestEnv(t)

	rr := call(t, env.editor.CreatePage, http.MethodPost, "/api/pages", map[string]string{"name": "  Spring Launch  "})
	expectStatus(t, rr, http.StatusCreated)

	p := decode[models.Page](t, rr)
	if p.Name != "Spring Launch" || p.ID == "" {
		t.Errorf("page = %+v", p)
	}
	active, ok := env.doc.ActivePage()
	if !ok || active.ID != p.ID {
		t.Error("created page should be active")
	}
}

func TestCreatePageRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"empty name", map[string]string{"name": "   "}},
		{"name too long", map[string]string{"name": strings.Repeat("x", maxPageNameLen+1)}},
		{"unknown field", map[string]string{"title": "x"}},
		{"malformed json", `{"name":`},
		{"empty body", nil},
		{"two objects", `{"name":"a"} {"name":"b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rr := call(t, env.editor.CreatePage, http.MethodPost, "/api/pages", tt.body)
			expectStatus(t, rr, http.StatusBadRequest)
			if len(env.doc.Pages()) != 0 {
				t.Error("no page should be created")
			}
		})
	}
}

func TestAddSection(t *testing.T) {
	env := newTestEnv(t)
	env.withPage(t, "Landing")

	t.Run("default content", func(t *testing.T) {
		rr := call(t, env.editor.AddSection, http.MethodPost, "/api/page/sections", map[string]string{"type": "hero"})
		expectStatus(t, rr, http.StatusCreated)
		sec := decode[models.Section](t, rr)
		hero, ok := sec.Data.(models.HeroContent)
		if !ok || hero.Headline != models.DefaultContent(models.SectionHero).(models.HeroContent).Headline {
			t.Errorf("data = %#v", sec.Data)
		}
		if sec.Order != 0 {
			t.Errorf("order = %d, want 0", sec.Order)
		}
	})

	t.Run("explicit content", func(t *testing.T) {
		rr := call(t, env.editor.AddSection, http.MethodPost, "/api/page/sections",
			`{"type":"cta","data":{"headline":"Join now","buttonText":"Go"}}`)
		expectStatus(t, rr, http.StatusCreated)
		sec := decode[models.Section](t, rr)
		cta, ok := sec.Data.(models.CTAContent)
		if !ok || cta.Headline != "Join now" || sec.Order != 1 {
			t.Errorf("section = %#v", sec)
		}
	})

	t.Run("malformed content kept raw", func(t *testing.T) {
		rr := call(t, env.editor.AddSection, http.MethodPost, "/api/page/sections",
			`{"type":"faq","data":{"items":"not-a-list"}}`)
		expectStatus(t, rr, http.StatusCreated)
		sec := decode[models.Section](t, rr)
		if _, ok := sec.Data.(models.RawContent); !ok {
			t.Errorf("data = %#v, want RawContent", sec.Data)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		rr := call(t, env.editor.AddSection, http.MethodPost, "/api/page/sections", map[string]string{"type": "banner"})
		expectStatus(t, rr, http.StatusBadRequest)
	})
}

func TestAddSectionWithoutActivePage(t *testing.T) {
	env := newTestEnv(t)
	rr := call(t, env.editor.AddSection, http.MethodPost, "/api/page/sections", map[string]string{"type": "hero"})
	expectStatus(t, rr, http.StatusConflict)
}

func TestUpdateSection(t *testing.T) {
	env := newTestEnv(t)
	p := env.withPage(t, "Landing", models.SectionHero)
	id := p.Sections[0].ID

	t.Run("data replaced", func(t *testing.T) {
		rr := call(t, env.editor.UpdateSection, http.MethodPatch, "/", `{"data":{"headline":"New"}}`, "id", id)
		expectStatus(t, rr, http.StatusOK)
		hero := decode[models.Section](t, rr).Data.(models.HeroContent)
		if hero.Headline != "New" || hero.CTAText != "" {
			t.Errorf("hero = %+v, want data replaced wholesale", hero)
		}
	})

	t.Run("style only", func(t *testing.T) {
		rr := call(t, env.editor.UpdateSection, http.MethodPatch, "/", `{"style":{"backgroundColor":"#000","fullWidth":true}}`, "id", id)
		expectStatus(t, rr, http.StatusOK)
		sec := decode[models.Section](t, rr)
		if !sec.Style.FullWidth || sec.Style.BackgroundColor != "#000" {
			t.Errorf("style = %+v", sec.Style)
		}
		if sec.Data.(models.HeroContent).Headline != "New" {
			t.Error("data should be untouched")
		}
	})

	t.Run("type change decodes against new type", func(t *testing.T) {
		rr := call(t, env.editor.UpdateSection, http.MethodPatch, "/", `{"type":"cta","data":{"headline":"Act"}}`, "id", id)
		expectStatus(t, rr, http.StatusOK)
		sec := decode[models.Section](t, rr)
		if sec.Type != models.SectionCTA {
			t.Fatalf("type = %s", sec.Type)
		}
		if c, ok := sec.Data.(models.CTAContent); !ok || c.Headline != "Act" {
			t.Errorf("data = %#v", sec.Data)
		}
	})

	t.Run("type-only change keeps data typed", func(t *testing.T) {
		rr := call(t, env.editor.UpdateSection, http.MethodPatch, "/", `{"type":"faq"}`, "id", id)
		expectStatus(t, rr, http.StatusOK)
		sec := decode[models.Section](t, rr)
		if _, ok := sec.Data.(models.FAQContent); !ok || sec.Type != models.SectionFAQ {
			t.Errorf("section = %s %#v", sec.Type, sec.Data)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		rr := call(t, env.editor.UpdateSection, http.MethodPatch, "/", `{"data":{}}`, "id", "missing")
		expectStatus(t, rr, http.StatusNotFound)
	})

	t.Run("unknown type", func(t *testing.T) {
		rr := call(t, env.editor.UpdateSection, http.MethodPatch, "/", `{"type":"banner"}`, "id", id)
		expectStatus(t, rr, http.StatusBadRequest)
	})
}

func TestReorderSections(t *testing.T) {
	env := newTestEnv(t)
	p := env.withPage(t, "Landing", models.SectionHeader, models.SectionHero, models.SectionFooter)
	footer := p.Ordered()[2].ID

	rr := call(t, env.editor.ReorderSections, http.MethodPost, "/", map[string]int{"from": 2, "to": 0})
	expectStatus(t, rr, http.StatusOK)
	got := decode[models.Page](t, rr).Ordered()
	if got[0].ID != footer {
		t.Errorf("first section = %s, want footer", got[0].Type)
	}
	for i, s := range got {
		if s.Order != i {
			t.Errorf("section %d has order %d", i, s.Order)
		}
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"out of range", `{"from":0,"to":3}`, http.StatusBadRequest},
		{"negative", `{"from":-1,"to":0}`, http.StatusBadRequest},
		{"missing to", `{"from":0}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := env.doc.ActivePage()
			rr := call(t, env.editor.ReorderSections, http.MethodPost, "/", tt.body)
			expectStatus(t, rr, tt.want)
			after, _ := env.doc.ActivePage()
			if after.Ordered()[0].ID != before.Ordered()[0].ID {
				t.Error("failed reorder must not change the page")
			}
		})
	}
}

func TestDuplicateAndRemoveSection(t *testing.T) {
	env := newTestEnv(t)
	p := env.withPage(t, "Landing", models.SectionFAQ, models.SectionCTA)
	faq := p.Ordered()[0].ID

	rr := call(t, env.editor.DuplicateSection, http.MethodPost, "/", nil, "id", faq)
	expectStatus(t, rr, http.StatusCreated)
	dup := decode[models.Section](t, rr)
	if dup.ID == faq || dup.Type != models.SectionFAQ || dup.Order != 2 {
		t.Errorf("duplicate = %+v", dup)
	}

	rr = call(t, env.editor.RemoveSection, http.MethodDelete, "/", nil, "id", faq)
	expectStatus(t, rr, http.StatusNoContent)

	active, _ := env.doc.ActivePage()
	if len(active.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(active.Sections))
	}
	if active.Ordered()[1].ID != dup.ID || active.Ordered()[1].Order != 1 {
		t.Error("remaining sections should be renumbered densely")
	}

	rr = call(t, env.editor.RemoveSection, http.MethodDelete, "/", nil, "id", faq)
	expectStatus(t, rr, http.StatusNotFound)
	rr = call(t, env.editor.DuplicateSection, http.MethodPost, "/", nil, "id", faq)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestSaveLoadDeletePage(t *testing.T) {
	env := newTestEnv(t)
	p := env.withPage(t, "Landing", models.SectionHero)

	rr := call(t, env.editor.SavePage, http.MethodPost, "/api/page/save", nil)
	expectStatus(t, rr, http.StatusOK)

	saved, err := store.NewPageStore(env.kv).LoadPages(context.Background())
	if err != nil || len(saved) != 1 || saved[0].ID != p.ID {
		t.Fatalf("persisted pages = %v, %v", saved, err)
	}
	if env.doc.Dirty() {
		t.Error("save should flush the changelog")
	}

	env.doc.CreatePage("Other")
	rr = call(t, env.editor.LoadPage, http.MethodPost, "/", nil, "id", p.ID)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[models.Page](t, rr); got.ID != p.ID || len(got.Sections) != 1 {
		t.Errorf("loaded = %+v", got)
	}

	rr = call(t, env.editor.LoadPage, http.MethodPost, "/", nil, "id", "missing")
	expectStatus(t, rr, http.StatusNotFound)

	rr = call(t, env.editor.DeletePage, http.MethodDelete, "/", nil, "id", p.ID)
	expectStatus(t, rr, http.StatusNoContent)
	if _, ok := env.doc.ActivePage(); ok {
		t.Error("deleting the active page should clear it")
	}
	rr = call(t, env.editor.DeletePage, http.MethodDelete, "/", nil, "id", p.ID)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestSaveWithoutActivePage(t *testing.T) {
	env := newTestEnv(t)
	rr := call(t, env.editor.SavePage, http.MethodPost, "/api/page/save", nil)
	expectStatus(t, rr, http.StatusConflict)
	if !strings.Contains(errorBody(t, rr), document.ErrNoActivePage.Error()) {
		t.Errorf("error = %q", errorBody(t, rr))
	}
}

func TestUpdatePageMetaAndBrand(t *testing.T) {
	env := newTestEnv(t)
	env.withPage(t, "Landing")

	rr := call(t, env.editor.UpdatePageMeta, http.MethodPatch, "/api/page",
		`{"name":"Renamed","seo":{"title":"SEO title"},"analytics":{"gaMeasurementId":"G-1"}}`)
	expectStatus(t, rr, http.StatusOK)
	p := decode[models.Page](t, rr)
	if p.Name != "Renamed" || p.SEO == nil || p.SEO.Title != "SEO title" || p.Analytics.GAMeasurementID != "G-1" {
		t.Errorf("page = %+v", p)
	}

	rr = call(t, env.editor.UpdatePageMeta, http.MethodPatch, "/api/page", `{"name":""}`)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = call(t, env.editor.UpdateBrand, http.MethodPatch, "/api/page/brand", `{"primaryColor":"#ff0000"}`)
	expectStatus(t, rr, http.StatusOK)
	brand := decode[models.Page](t, rr).Brand
	if brand.PrimaryColor != "#ff0000" {
		t.Errorf("primary = %q", brand.PrimaryColor)
	}
	if brand.HeadingFont != models.DefaultBrandSettings().HeadingFont {
		t.Error("unset brand fields should be kept")
	}
}

func TestSelectionAndDragging(t *testing.T) {
	env := newTestEnv(t)
	p := env.withPage(t, "Landing", models.SectionHero)

	rr := call(t, env.editor.SelectSection, http.MethodPut, "/", map[string]string{"sectionId": p.Sections[0].ID})
	expectStatus(t, rr, http.StatusOK)
	if env.doc.SelectedSection() != p.Sections[0].ID {
		t.Error("section should be selected")
	}

	rr = call(t, env.editor.SetDragging, http.MethodPut, "/", map[string]bool{"dragging": true})
	expectStatus(t, rr, http.StatusOK)
	if !env.doc.Dragging() {
		t.Error("dragging flag should be set")
	}

	rr = call(t, env.editor.State, http.MethodGet, "/api/state", nil)
	expectStatus(t, rr, http.StatusOK)
	st := decode[document.State](t, rr)
	if st.ActivePage == nil || st.Selected != p.Sections[0].ID || !st.Dragging {
		t.Errorf("state = %+v", st)
	}
}

func TestSectionTypes(t *testing.T) {
	env := newTestEnv(t)
	rr := call(t, env.editor.SectionTypes, http.MethodGet, "/api/section-types", nil)
	expectStatus(t, rr, http.StatusOK)

	type entry struct {
		Type    string         `json:"type"`
		Default map[string]any `json:"default"`
	}
	got := decode[[]entry](t, rr)
	if len(got) != len(models.SectionTypes()) {
		t.Fatalf("types = %d, want %d", len(got), len(models.SectionTypes()))
	}
	for _, e := range got {
		if e.Default == nil {
			t.Errorf("%s has no default content", e.Type)
		}
	}
}

func TestListPages(t *testing.T) {
	env := newTestEnv(t)
	env.withPage(t, "A")
	env.withPage(t, "B")

	rr := call(t, env.editor.ListPages, http.MethodGet, "/api/pages", nil)
	expectStatus(t, rr, http.StatusOK)
	if pages := decode[[]models.Page](t, rr); len(pages) != 2 {
		t.Errorf("pages = %d, want 2", len(pages))
	}
}
