// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every dependency is in memory so no external service is needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/ai"
	"pagesmith/internal/document"
	"pagesmith/internal/generate"
	"pagesmith/internal/kvstore"
	"pagesmith/internal/models"
	"pagesmith/internal/publish"
	"pagesmith/internal/secret"
	"pagesmith/internal/session"
	"pagesmith/internal/store"
)

// mockAIProvider implements ai.Provider for handler tests.
type mockAIProvider struct {
	name     string
	response string
	err      error
	hook     func() // runs before answering
	calls    int
}

func (m *mockAIProvider) Name() string { return m.name }

func (m *mockAIProvider) Generate(_ context.Context, _ ai.Prompt) (string, error) {
	m.calls++
	if m.hook != nil {
		m.hook()
	}
	return m.response, m.err
}

// testEnv bundles the handler groups and the stores behind them.
type testEnv struct {
	editor    *Editor
	public    *Public
	doc       *document.Store
	kv        *kvstore.MemoryStore
	registry  *ai.Registry
	provider  *mockAIProvider
	settings  *store.SettingStore
	published *store.PublishedStore
	sessions  *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := kvstore.NewMemoryStore()
	doc := document.New(document.Options{Repository: store.NewPageStore(kv)})

	provider := &mockAIProvider{name: "mock", response: `{"headline":"Generated"}`}
	registry := ai.NewRegistry("mock", nil)
	registry.Register("mock", provider)

	sealer, err := secret.NewSealer("handler-test-secret-value")
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}
	settings := store.NewSettingStore(kv)
	published := store.NewPublishedStore(kv)
	publisher := publish.New(publish.Options{Pages: doc, Registry: published, Sticky: settings})

	return &testEnv{
		editor: NewEditor(EditorDeps{
			Document:  doc,
			Generator: generate.New(registry),
			Registry:  registry,
			Publisher: publisher,
			Settings:  settings,
			APIKeys:   store.NewAPIKeyStore(kv, sealer),
			Published: published,
		}),
		public:    NewPublic(publisher),
		doc:       doc,
		kv:        kv,
		registry:  registry,
		provider:  provider,
		settings:  settings,
		published: published,
		sessions:  session.NewMemoryStore(),
	}
}

// call invokes h with an optional JSON body and chi URL params given as
// key, value pairs.
func call(t *testing.T, h http.HandlerFunc, method, target string, body any, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// decode unmarshals the recorder body into T.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

// expectStatus fails the test when rr has a different status code.
func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

// errorBody returns the "error" field of a JSON error response.
func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

// withPage creates an active page holding sections of the given types.
func (env *testEnv) withPage(t *testing.T, name string, types ...models.SectionType) models.Page {
	t.Helper()
	env.doc.CreatePage(name)
	for _, typ := range types {
		if _, err := env.doc.AddSection(typ, nil); err != nil {
			t.Fatalf("add %s: %v", typ, err)
		}
	}
	p, _ := env.doc.ActivePage()
	return p
}

