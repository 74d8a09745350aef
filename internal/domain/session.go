package domain

// Session is the auth-session record written by the login flow. The rest of
// the service only ever reads it.
type Session struct {
	Name       string `json:"name,omitempty"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}
