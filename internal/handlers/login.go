package handlers

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	applog "stircraft/internal/log"
	"stircraft/internal/views/pages"
)

const (
	credentialsMissing   = "Email and password are required."
	credentialsRejected  = "Invalid email or password. Please try again."
	signInUnavailable    = "Signing in isn't working right now. Please try again shortly."
	signedOutNotice      = "You have been signed out. See you at the bar."
	accountDeletedNotice = "Your account and its cocktails have been deleted."
)

type signInForm struct {
	Email    string
	Password string
}

func (f signInForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required.Error(credentialsMissing)),
		validation.Field(&f.Password, validation.Required.Error(credentialsMissing)),
	)
}

// signIn checks the submitted credentials and starts a session for the
// matching account. The returned message is shown above the form.
func signIn(r *http.Request, form signInForm) (string, bool) {
	if err := form.Validate(); err != nil {
		return credentialsMissing, false
	}

	user, err := verifyCredentials(r, form.Email, form.Password)
	switch {
	case errors.Is(err, errBadCredentials):
		applog.Info(r.Context(), "sign-in rejected", "email", strings.ToLower(form.Email))
		return credentialsRejected, false
	case err != nil:
		applog.Error(r.Context(), "failed to look up account for sign-in", "error", err)
		return signInUnavailable, false
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "userID", user.ID, "error", err)
		return signInUnavailable, false
	}
	applog.Info(r.Context(), "signed in", "userID", user.ID)
	return "", true
}

// Login serves the sign-in page. Notices left by sign-out or account
// deletion are shown once on the next visit.
func Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		notice := ""
		if sessionManager != nil {
			notice = sessionManager.PopString(r.Context(), sessionSignInNoticeKey)
		}
		renderLogin(w, r, notice, "")
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := signInForm{
			Email:    strings.TrimSpace(r.PostFormValue("email")),
			Password: r.PostFormValue("password"),
		}
		if message, ok := signIn(r, form); !ok {
			renderLogin(w, r, message, form.Email)
			return
		}
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	view := pages.Login(message, email)
	if isHTMX(r) {
		view = pages.LoginPartial(message, email)
	}
	renderComponent(w, r, http.StatusOK, view)
}
