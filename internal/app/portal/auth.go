package portal

import (
	"context"
	"strings"

	"buzzportal/internal/app/api"
	"buzzportal/internal/app/gate"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/user"
	"buzzportal/internal/pkg/errs"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

// LoginForm is the submitted sign-in form.
type LoginForm struct {
	Email    string
	Password string
	Role     user.Role
}

// SignupForm is the submitted account form.
type SignupForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Role            user.Role
	TermsAccepted   bool
}

// Login signs the visitor in. On success the session holds the identity and credential
// and the returned location is the identity's dashboard; otherwise location is empty.
func (p *Portal) Login(ctx context.Context, sessionID string, form LoginForm) (location string, notice session.Notice) {
	email := strings.TrimSpace(form.Email)
	password := strings.TrimSpace(form.Password)
	if email == "" || password == "" {
		return "", invalid(errs.NewError(errs.ErrLoginFieldsMissing))
	}

	role := form.Role
	if !role.Valid() {
		role = user.RoleStudent
	}

	res, err := p.remote.Login(ctx, api.Credentials{Email: email, Password: password, Role: role})
	if err != nil {
		n, _ := failure(err, "Login failed")
		return "", n
	}

	if err := p.sessions.Set(sessionID, res.User, res.Token); err != nil {
		p.logger.Warn().Err(err).Str("email", email).Msg("Login response lacked a usable identity.")
		return "", session.Failure("Login failed")
	}

	return gate.DashboardFor(res.User.Role), session.Success("Login successful!")
}

// Signup creates an account. It reports whether the account was created; the visitor is
// not signed in either way.
func (p *Portal) Signup(ctx context.Context, form SignupForm) (session.Notice, bool) {
	name := strings.TrimSpace(form.Name)
	email := strings.TrimSpace(form.Email)
	password := strings.TrimSpace(form.Password)
	confirm := strings.TrimSpace(form.ConfirmPassword)

	switch {
	case name == "" || email == "" || password == "" || confirm == "":
		return invalid(errs.NewError(errs.ErrSignupFieldsMissing)), false
	case password != confirm:
		return invalid(errs.NewError(errs.ErrPasswordMismatch)), false
	case len(password) < MinPasswordLength:
		return invalid(errs.NewError(errs.ErrPasswordTooShort, MinPasswordLength)), false
	case !form.TermsAccepted:
		return invalid(errs.NewError(errs.ErrTermsNotAccepted)), false
	}

	role := form.Role
	if !role.Valid() {
		role = user.RoleStudent
	}

	if _, err := p.remote.Signup(ctx, api.SignupInput{Name: name, Email: email, Password: password, Role: role}); err != nil {
		n, _ := failure(err, "Signup failed")
		return n, false
	}

	p.logger.Info().Str("role", string(role)).Msg("Account created.")
	return session.Success("Account created successfully! Please login."), true
}

// Logout clears everything the browser session holds.
func (p *Portal) Logout(sessionID string) {
	p.sessions.Clear(sessionID)
}
