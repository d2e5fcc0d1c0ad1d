package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestSignupFormFirstProblem(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		form signupForm
		want string
	}{
		{"valid", signupForm{Email: "a@example.com", Password: "password123", Confirm: "password123"}, ""},
		{"missing email", signupForm{Password: "password123", Confirm: "password123"}, "Please provide a valid email address."},
		{"bad email", signupForm{Email: "nope", Password: "password123", Confirm: "password123"}, "Please provide a valid email address."},
		{"short password", signupForm{Email: "a@example.com", Password: "short", Confirm: "short"}, "Password must be at least 8 characters long."},
		{"mismatch", signupForm{Email: "a@example.com", Password: "password123", Confirm: "password124"}, "Passwords do not match."},
		{"email reported first", signupForm{Email: "nope", Password: "short", Confirm: "x"}, "Please provide a valid email address."},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.form.firstProblem(); got != tc.want {
				t.Fatalf("firstProblem() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSignupCreatesAccountAndSignsIn(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := withSession(t, sm, postForm("/signup", url.Values{
		"name":             {"Rae"},
		"email":            {"rae@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}))
	w := httptest.NewRecorder()
	Signup(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := currentUserID(req); !ok {
		t.Fatal("expected new account to be signed in")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	if _, err := createUser(httptest.NewRequest(http.MethodPost, "/signup", nil), "rae@example.com", "Rae", "password123"); err != nil {
		t.Fatalf("createUser returned error: %v", err)
	}

	w := httptest.NewRecorder()
	Signup(w, withSession(t, sm, postForm("/signup", url.Values{
		"email":            {"RAE@example.com"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	})))

	if w.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "An account with that email already exists.") {
		t.Fatalf("expected duplicate message, got %q", w.Body.String())
	}
}
