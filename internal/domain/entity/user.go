package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User represents a core domain entity without infrastructure concerns.
// Optional text fields are nil when absent.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Age       int
	Gender    *string
	Bio       *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewID returns a fresh record identifier (24 hex characters).
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id has the identifier format used by every store.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// Now returns the current UTC time truncated to the millisecond precision
// the document store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
