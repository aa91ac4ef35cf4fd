package dto

// SignupRequest represents the request payload for user registration
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255" example:"Jordan Doe"`
	Handle   string `json:"handle" validate:"required,min=3,max=60" example:"jordan42"`
	Email    string `json:"email" validate:"required,email,max=255" example:"jordan@example.com"`
	Password string `json:"password" validate:"required,min=8,max=100,password_strength" example:"SecurePass123!"`
}

// SignupResponse represents the result of a registration
type SignupResponse struct {
	User UserInfo `json:"user"`
}
