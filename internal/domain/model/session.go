package model

import "time"

// CredentialKey is the fixed key the admin credential is stored under.
const CredentialKey = "ADMIN_TOKEN"

// Session is the explicit session context handed to the code API client.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
}
