package utils

import "github.com/google/uuid"

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// GenerateRoomID returns a random room identifier.
func GenerateRoomID() string {
	return "room-" + uuid.NewString()
}

// GenerateClientID returns the opaque token assigned to a connection.
func GenerateClientID() string {
	return uuid.NewString()
}
