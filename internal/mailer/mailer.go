// Package mailer delivers transactional email. Dispatch is always
// fire-and-forget from the caller's point of view: a failed send is logged
// and never fails the triggering request.
package mailer

import (
	"context"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Kind selects the message template.
type Kind int

const (
	KindSignupCode Kind = iota
	KindLoginCode
	KindPasswordReset
)

// Mail is a single outbound message.
type Mail struct {
	Kind Kind
	To   string
	Name string
	// Code carries the 6-digit verification code for signup/login mail.
	Code string
	// ResetLink carries the password reset URL for reset mail.
	ResetLink string
}

// Mailer sends a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

func (k Kind) subject() string {
	switch k {
	case KindSignupCode:
		return "Verify Your Email Address"
	case KindLoginCode:
		return "Your Login OTP Code"
	case KindPasswordReset:
		return "Password Reset Request"
	}
	return ""
}

func (k Kind) templateName() string {
	switch k {
	case KindSignupCode:
		return "verify_signup.html"
	case KindLoginCode:
		return "verify_login.html"
	case KindPasswordReset:
		return "reset_password.html"
	}
	return ""
}

func loadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
