package model

import "time"

// User represents an application user record as stored in the
// `users` table. The ID is an opaque UUID assigned when the
// registration ceremony completes. The json tags are omitted here
// because these structs are primarily used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID          – opaque unique identifier of the user (UUID).
//  DisplayName – name shown on the leaderboard.
//  CreatedAt   – timestamp of creation.
type User struct {
	ID          string    // users.id
	DisplayName string    // users.display_name
	CreatedAt   time.Time // users.created_at
}
