package model

import "time"

// Person is a directory entry for someone who is not a client: opposing
// counsel, witnesses, court staff. Email and phone are optional but unique.
type Person struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Contact is the email, or the phone when there is no email.
func (p *Person) Contact() string {
	if p.Email != nil && *p.Email != "" {
		return *p.Email
	}
	if p.Phone != nil {
		return *p.Phone
	}
	return ""
}
