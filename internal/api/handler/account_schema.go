package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type signupRequest struct {
	Username     string `json:"username"     validate:"required"`
	Password     string `json:"password"     validate:"required"`
	Name         string `json:"name"         validate:"required"`
	ProfilePhoto string `json:"profilePhoto" validate:"required"`
	Bio          string `json:"bio"          validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type profileResponse struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profilePhoto"`
	Bio          string `json:"bio"`
}

type profileUpdateRequest struct {
	Name         string `json:"name"         validate:"required"`
	ProfilePhoto string `json:"profilePhoto" validate:"required"`
	Bio          string `json:"bio"          validate:"required"`
}

type changePasswordRequest struct {
	Username        string `json:"username"        validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required"`
}
