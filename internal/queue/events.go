package queue

// Exchange is the topic exchange all auth events go to.
const Exchange = "auth.events"

const (
	KeyUserRegistered = "user.registered"
	KeyUserLoggedIn   = "user.loggedin"
)

// User IDs are the provider's opaque ids; no local identity exists.

type UserRegistered struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
