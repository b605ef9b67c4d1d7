package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChecker(t *testing.T) {
	c := NewChecker(map[string][]string{
		"ops":   {"attempt:*"},
		"admin": {"*"},
	})
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"ops", "attempt:view-all", true},
		{"ops", "quiz:import", false},
		{"admin", "quiz:import", true},
		{"nobody", "attempt:view-all", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v", tc.role, tc.perm, got)
		}
	}
	if !c.Any("ops", "quiz:import", "attempt:view-all") {
		t.Error("Any should match the second permission")
	}
}

func TestRequire(t *testing.T) {
	h := Require("quiz:import")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for role, want := range map[string]int{"admin": 200, "teacher": 403, "": 403} {
		req := httptest.NewRequest("PUT", "/admin/quizzes", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: got %d, want %d", role, rec.Code, want)
		}
	}
}
