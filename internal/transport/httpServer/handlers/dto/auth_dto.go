package dto

// LoginRequest exchanges the shared password for a token.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}
