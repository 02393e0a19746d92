package dto

// SignupResponse returns the created account plus the verification token.
// The 6-digit code travels by email only, never in this response.
type SignupResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Verified    bool   `json:"verified"`
	VerifyToken string `json:"verify_token"`
}

// TokenResponse returns a freshly issued verification token
type TokenResponse struct {
	Token string `json:"token"`
}

// VerifiedResponse reports a verification state
type VerifiedResponse struct {
	Verified bool `json:"verified"`
}

// ValidResponse reports a token validity check
type ValidResponse struct {
	Valid bool `json:"valid"`
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Detail string `json:"detail"`
}

// UserResponse represents the current user's profile
type UserResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Userpic   *string `json:"userpic"`
	Verified  bool    `json:"verified"`
	Credits   int     `json:"credits"`
	CreatedAt string  `json:"created_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
