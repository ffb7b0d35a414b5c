package models

// User is the single persisted account record.
type User struct {
	ID           int64  `json:"id"`
	Account      string `json:"account"`
	PasswordHash string `json:"-"`
	AboutMe      string `json:"about_me"`
}
