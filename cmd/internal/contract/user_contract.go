package contract

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"omitempty,max=150"`
	// Custom validators like 'notnumeric' are registered on the shared validator.
	Password  string `json:"password" validate:"required,min=8,max=128,notnumeric"`
	Password2 string `json:"password2" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type AuthResponse struct {
	User   *UserResponse `json:"user"`
	Tokens *TokenPair    `json:"tokens"`
}

type AccessResponse struct {
	Access string `json:"access"`
}
