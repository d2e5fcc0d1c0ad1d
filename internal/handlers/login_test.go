package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestLoginRendersForm(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	w := httptest.NewRecorder()
	Login(w, withSession(t, sm, httptest.NewRequest(http.MethodGet, "/login", nil)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `id="auth-panel"`) {
		t.Fatal("expected login form in response")
	}
}

func TestLoginRedirectsActiveSession(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	w := httptest.NewRecorder()
	Login(w, authenticateRequest(t, sm, httptest.NewRequest(http.MethodGet, "/login", nil), 1))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/cocktails" {
		t.Fatalf("expected redirect to catalog, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	if _, err := createUser(httptest.NewRequest(http.MethodPost, "/signup", nil), "kim@example.com", "Kim", "password123"); err != nil {
		t.Fatalf("createUser returned error: %v", err)
	}

	req := withSession(t, sm, postForm("/login", url.Values{"email": {"kim@example.com"}, "password": {"wrong"}}))
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	Login(w, req)

	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", w.Code)
	}
	if !strings.Contains(body, "Invalid email or password") || !strings.Contains(body, "kim@example.com") {
		t.Fatalf("expected error message with email kept, got %q", body)
	}
	if strings.Contains(body, "<html") {
		t.Fatal("expected partial for HTMX request")
	}
	if ActiveSession(req) {
		t.Fatal("session must stay anonymous after a failed sign-in")
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	w := httptest.NewRecorder()
	Login(w, withSession(t, sm, postForm("/login", url.Values{"email": {"kim@example.com"}})))

	if !strings.Contains(w.Body.String(), "Email and password are required.") {
		t.Fatal("expected missing credential message")
	}
}

func TestLoginRejectsOtherMethods(t *testing.T) {
	w := httptest.NewRecorder()
	Login(w, httptest.NewRequest(http.MethodDelete, "/login", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestLoginStartsSessionForValidCredentials(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	if _, err := createUser(httptest.NewRequest(http.MethodPost, "/signup", nil), "kim@example.com", "Kim", "password123"); err != nil {
		t.Fatalf("createUser returned error: %v", err)
	}

	req := withSession(t, sm, postForm("/login", url.Values{"email": {" KIM@example.com "}, "password": {"password123"}}))
	w := httptest.NewRecorder()
	Login(w, req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/cocktails" {
		t.Fatalf("expected redirect to catalog, got %d %q", w.Code, w.Header().Get("Location"))
	}
	if !ActiveSession(req) || sm.GetString(req.Context(), sessionUserNameKey) != "Kim" {
		t.Fatal("expected session to carry the signed-in account")
	}
}

func TestLoginShowsSignOutNoticeOnce(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)

	req := authenticateRequest(t, sm, httptest.NewRequest(http.MethodPost, "/logout", nil), 1)
	Logout(httptest.NewRecorder(), req)

	page := httptest.NewRequest(http.MethodGet, "/login", nil).WithContext(req.Context())
	w := httptest.NewRecorder()
	Login(w, page)
	if !strings.Contains(w.Body.String(), "You have been signed out.") {
		t.Fatalf("expected sign-out notice, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	Login(w, page)
	if strings.Contains(w.Body.String(), "You have been signed out.") {
		t.Fatal("expected notice to be shown only once")
	}
}
