package model

import (
	"time"
)

// User is a firm member. Users are provisioned by the operator CLI and
// identified per request by the trusted proxy header.
type User struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}
