package model

// User is the backend profile of an account. Credentials never travel in it.
type User struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// Role is the raw role tag as sent by the backend. Use
	// session.ParseRole to obtain the typed value.
	Role  string `json:"role"`
	Ativo bool   `json:"ativo"`

	// Preferencias maps a notification type tag to whether the user
	// receives that notification.
	Preferencias map[string]bool `json:"preferencias,omitempty"`
}

// DisplayName returns the name shown in tables, falling back to the username.
func (u User) DisplayName() string {
	if u.Nome != "" {
		return u.Nome
	}
	return u.Username
}

// Credentials is the login form payload.
type Credentials struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// Registration is the sign-up form payload.
type Registration struct {
	Nome     string `json:"nome"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Senha    string `json:"senha"`
}

// AuthResult is returned by the login and registration endpoints.
type AuthResult struct {
	Token   string `json:"token"`
	Usuario User   `json:"usuario"`
}
