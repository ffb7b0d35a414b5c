package dto

// CredentialsRequest is the body accepted by /register and /login.
// Field names keep the capitalised keys existing clients send.
type CredentialsRequest struct {
	Account  string `json:"Account"`
	Password string `json:"Password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Account string `json:"account"`
}

type ProfileRequest struct {
	AboutMe string `json:"about_me"`
}

type ProfileResponse struct {
	Success bool   `json:"success"`
	AboutMe string `json:"about_me"`
}

type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Uptime  string `json:"uptime"`
}
