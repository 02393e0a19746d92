package dto

// SignupRequest represents a registration request
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Userpic  string `json:"userpic" binding:"omitempty,url"`
}

// RequestSignupTokenRequest asks for a fresh signup verification token
type RequestSignupTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifySignupRequest carries the signup verification token and the code the
// user received by email
type VerifySignupRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

// RequestLoginTokenRequest is the password step of login
type RequestLoginTokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyLoginRequest carries the login verification token and code
type VerifyLoginRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ForgotPasswordRequest asks for a password reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyResetTokenRequest checks a reset token without consuming it
type VerifyResetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResetPasswordRequest consumes a reset token and sets a new password
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// CheckEmailStatusRequest asks whether an email is verified
type CheckEmailStatusRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyCodeTokenRequest checks a signup/login verification token
type VerifyCodeTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
