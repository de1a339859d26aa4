package user

import (
	"strings"
	"time"
)

// User is a row of the users table.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Age       int       `json:"age" db:"age"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateUserInput is the create payload. Pointers distinguish a missing field
// from a zero value.
type CreateUserInput struct {
	Name  *string `json:"name" validate:"required,min=1,max=255"`
	Email *string `json:"email" validate:"required,min=1,max=255,emailshape"`
	Age   *int    `json:"age" validate:"required,min=1,max=150"`
}

// UpdateUserInput is the partial update payload; nil fields are left untouched.
type UpdateUserInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,min=1,max=255,emailshape"`
	Age   *int    `json:"age" validate:"omitempty,min=1,max=150"`
}

// IsEmpty reports whether no field was supplied.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Name == nil && in.Email == nil && in.Age == nil
}

// UpdateFields are the columns the repository writes on update.
type UpdateFields struct {
	Name  *string
	Email *string
	Age   *int
}

func (in *CreateUserInput) normalize() {
	in.Name = trimmed(in.Name)
	in.Email = normalizedEmail(in.Email)
}

func (in *UpdateUserInput) normalize() {
	in.Name = trimmed(in.Name)
	in.Email = normalizedEmail(in.Email)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func normalizedEmail(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeEmail(*s)
	return &v
}

// NormalizeEmail trims and lower-cases an address; stored emails are always
// in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
