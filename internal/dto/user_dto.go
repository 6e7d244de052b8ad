package dto

// RegisterRequest is the multipart form for account creation; the avatar
// image arrives as a separate file part.
type RegisterRequest struct {
	Email      string `json:"email" form:"email"`
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
	FirstName  string `json:"first_name" form:"first_name"`
	LastName   string `json:"last_name" form:"last_name"`
	MiddleName string `json:"middle_name" form:"middle_name"`
}

// UpdateUserRequest is the explicit whitelist of updatable profile fields.
// Nil means "leave unchanged"; anything not listed here cannot be touched
// through the profile endpoint.
type UpdateUserRequest struct {
	Email       *string `json:"email" form:"email"`
	FirstName   *string `json:"first_name" form:"first_name"`
	LastName    *string `json:"last_name" form:"last_name"`
	MiddleName  *string `json:"middle_name" form:"middle_name"`
	DateOfBirth *string `json:"date_of_birth" form:"date_of_birth"`
}
