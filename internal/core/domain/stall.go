package domain

import (
	"errors"
	"time"
)

var ErrAdminNotFound = errors.New("admin record not found")
var ErrStallNotFound = errors.New("stall not found")
var ErrInvalidStall = errors.New("invalid stall")

// Stall is a food stall operated by a single owner account.
type Stall struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Location  string    `json:"location" bson:"location"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Admin links a user to the stall they administer. Its existence is what
// grants the administrative role.
type Admin struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	StallID   string    `json:"stall_id" bson:"stall_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
