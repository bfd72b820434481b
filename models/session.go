package models

import "time"

// Identity is the admin record kept next to the bearer token.
type Identity struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"loginTime"`
}

type Session struct {
	ID       string    `json:"id"`
	Token    string    `json:"-"`
	Identity *Identity `json:"user"`
}
