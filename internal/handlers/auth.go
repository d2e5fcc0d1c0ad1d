package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "stircraft/internal/log"
	"stircraft/internal/recipes"
	"stircraft/internal/views/components"
	"stircraft/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionSignInNoticeKey  = "signin:notice"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
	sessionUserNameKey      = "auth:user:name"
	sessionFlashKey         = "flash:message"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
}

func service() *recipes.Service {
	if database == nil {
		return nil
	}
	return recipes.New(database)
}

// createUser hashes the password and stores the account with its system lists.
func createUser(r *http.Request, email, name, password string) (*models.User, error) {
	svc := service()
	if svc == nil {
		return nil, gorm.ErrInvalidDB
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return svc.CreateUser(r.Context(), recipes.UserInput{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	})
}

func findUserByEmail(r *http.Request, email string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	user := &models.User{}
	err := database.WithContext(r.Context()).Where("lower(email) = ?", strings.ToLower(email)).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

var errBadCredentials = errors.New("unknown email or wrong password")

// verifyCredentials returns the account matching email when password is
// correct. Unknown emails and wrong passwords both yield errBadCredentials.
func verifyCredentials(r *http.Request, email, password string) (*models.User, error) {
	user, err := findUserByEmail(r, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return user, nil
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserIDKey, int(user.ID))
	sessionManager.Put(r.Context(), sessionUserEmailKey, user.Email)
	sessionManager.Put(r.Context(), sessionUserNameKey, user.Name)
	return nil
}

// RequireAuthentication ensures the user has an active session before accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logout destroys the current session and redirects the user to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
		sessionManager.Put(r.Context(), sessionSignInNoticeKey, signedOutNotice)
	}

	redirectToLogin(w, r)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/cocktails")
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/cocktails", http.StatusSeeOther)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionUserIDKey) > 0
}

// currentUserID returns the authenticated user's id from the session.
func currentUserID(r *http.Request) (uint, bool) {
	if sessionManager == nil {
		return 0, false
	}
	id := sessionManager.GetInt(r.Context(), sessionUserIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// navFor describes the navigation bar for the current visitor.
func navFor(r *http.Request, active string) components.NavData {
	nav := components.NavData{Active: active}
	if !ActiveSession(r) {
		return nav
	}
	nav.SignedIn = true
	nav.UserName = sessionManager.GetString(r.Context(), sessionUserNameKey)
	if nav.UserName == "" {
		nav.UserName = sessionManager.GetString(r.Context(), sessionUserEmailKey)
	}
	return nav
}

// DeleteAccount removes the signed-in user together with their cocktails and
// lists, then ends the session.
func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}

	if err := svc.DeleteUser(r.Context(), userID); err != nil {
		writeHTTPError(w, r, err)
		return
	}
	applog.Info(r.Context(), "account deleted", "userID", userID)

	if err := sessionManager.Destroy(r.Context()); err != nil {
		applog.Error(r.Context(), "failed to destroy session", "error", err)
	}
	sessionManager.Put(r.Context(), sessionSignInNoticeKey, accountDeletedNotice)
	redirectToLogin(w, r)
}

// requireUser returns the signed-in user's id or redirects to the login page.
func requireUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := currentUserID(r)
	if !ok || !ActiveSession(r) {
		applog.Debug(r.Context(), "unauthenticated request redirected to login", "path", r.URL.Path)
		redirectToLogin(w, r)
		return 0, false
	}
	return userID, true
}

// requireUserJSON is requireUser for JSON endpoints, which answer 401 instead
// of redirecting.
func requireUserJSON(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := currentUserID(r)
	if !ok || !ActiveSession(r) {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}
