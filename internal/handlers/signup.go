package handlers

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	applog "stircraft/internal/log"
	"stircraft/internal/recipes"
	"stircraft/internal/views/pages"
)

const (
	minPasswordLength = 8
	signupFailed      = "We couldn't create your account right now. Please try again."
)

type signupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Validate reports the first problem in field order so the form can show a
// single message.
func (f signupForm) Validate() error {
	return validation.Errors{
		"1email": validation.Validate(f.Email,
			validation.Required.Error("Please provide a valid email address."),
			is.EmailFormat.Error("Please provide a valid email address."),
		),
		"2password": validation.Validate(f.Password,
			validation.RuneLength(minPasswordLength, 0).Error("Password must be at least 8 characters long."),
			validation.Required.Error("Password must be at least 8 characters long."),
		),
		"3confirm": validation.Validate(f.Confirm,
			validation.By(func(value interface{}) error {
				if value.(string) != f.Password {
					return errors.New("Passwords do not match.")
				}
				return nil
			}),
		),
	}.Filter()
}

func (f signupForm) firstProblem() string {
	err := f.Validate()
	if err == nil {
		return ""
	}
	errs, ok := err.(validation.Errors)
	if !ok {
		return err.Error()
	}
	for _, key := range []string{"1email", "2password", "3confirm"} {
		if fieldErr, ok := errs[key]; ok {
			return fieldErr.Error()
		}
	}
	return signupFailed
}

// Signup displays the account creation form and registers new accounts.
func Signup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderSignup(w, r, "", "", "")
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := signupForm{
			Name:     strings.TrimSpace(r.PostFormValue("name")),
			Email:    strings.TrimSpace(r.PostFormValue("email")),
			Password: r.PostFormValue("password"),
			Confirm:  r.PostFormValue("confirm_password"),
		}
		if problem := form.firstProblem(); problem != "" {
			renderSignup(w, r, problem, form.Name, form.Email)
			return
		}

		user, err := createUser(r, form.Email, form.Name, form.Password)
		if verr, ok := recipes.AsValidation(err); ok {
			renderSignup(w, r, signupMessage(verr), form.Name, form.Email)
			return
		}
		if err != nil {
			applog.Error(r.Context(), "failed to create user", "error", err)
			renderSignup(w, r, signupFailed, form.Name, form.Email)
			return
		}

		if err := establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session after signup", "error", err)
			renderSignup(w, r, "We couldn't sign you in after creating your account. Please try again.", form.Name, form.Email)
			return
		}

		applog.Info(r.Context(), "account created", "userID", user.ID)
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderSignup(w http.ResponseWriter, r *http.Request, message, name, email string) {
	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, pages.SignupPartial(message, name, email))
		return
	}
	renderComponent(w, r, http.StatusOK, pages.Signup(message, name, email))
}

func signupMessage(verr *recipes.ValidationError) string {
	for _, field := range []string{"email", "name"} {
		if message := verr.Field(field); message != "" {
			return strings.ToUpper(message[:1]) + message[1:] + "."
		}
	}
	return signupFailed
}
