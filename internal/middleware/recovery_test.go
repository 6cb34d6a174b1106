// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoverer(t *testing.T) {
	t.Run("catches panic and returns JSON 500", func(t *testing.T) {
		captureLog(t)
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("something went wrong")
		})

		rr := httptest.NewRecorder()
		Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/pages", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"error":"internal error"`) {
			t.Errorf("body = %q", rr.Body.String())
		}
	})

	t.Run("passes through without panic", func(t *testing.T) {
		inner, called := okHandler()
		rr := httptest.NewRecorder()
		Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if !*called || rr.Code != http.StatusOK {
			t.Errorf("called=%v status=%d", *called, rr.Code)
		}
	})
}
