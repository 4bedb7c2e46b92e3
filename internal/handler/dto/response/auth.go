package response

import "boxcric-api/internal/usecase/queries"

type RegisterResponse struct {
	TempToken string `json:"temp_token"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

type AuthResponse struct {
	AccessToken string                      `json:"access_token"`
	User        *queries.AuthorizedUserView `json:"user"`
}
