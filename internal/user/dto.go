package user

// RegisterRequest is the user registration payload.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"jdoe"`
	Email    string `json:"email" binding:"required,email" example:"jdoe@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
}

// UpdateRequest carries a partial update; empty fields are left unchanged.
// swagger:model UpdateRequest
type UpdateRequest struct {
	Username string `json:"username" example:"jdoe"`
	Email    string `json:"email" example:"jdoe@example.com"`
	Password string `json:"password" example:"new-s3cret"`
}

// AuthenticateRequest is the credential check payload.
// swagger:model AuthenticateRequest
type AuthenticateRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jdoe@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}
