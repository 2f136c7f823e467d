package security

import "github.com/google/uuid"

// GenerateSessionID creates a new UUID for game session identification.
func GenerateSessionID() string {
	return uuid.New().String()
}

// GenerateVisitorID creates a new UUID for the long-lived visitor cookie.
func GenerateVisitorID() string {
	return uuid.New().String()
}
