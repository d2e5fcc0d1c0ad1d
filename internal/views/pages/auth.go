package pages

import (
	"github.com/a-h/templ"

	"stircraft/internal/views/components"
)

type authForm struct {
	Message string
	Name    string
	Email   string
}

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return page("Sign in", components.NavData{Active: "login"}, LoginPartial(message, email))
}

// LoginPartial renders only the sign-in form for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return render("login", authForm{Message: message, Email: email})
}

// Signup renders the full account creation page.
func Signup(message, name, email string) templ.Component {
	return page("Create account", components.NavData{Active: "signup"}, SignupPartial(message, name, email))
}

// SignupPartial renders only the account creation form.
func SignupPartial(message, name, email string) templ.Component {
	return render("signup", authForm{Message: message, Name: name, Email: email})
}
