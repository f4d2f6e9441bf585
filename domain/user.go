package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	NameMinLength     = 2
	NameMaxLength     = 50
	PasswordMinLength = 6
	// bcrypt only reads the first 72 bytes.
	PasswordMaxBytes = 72
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// User represents an authenticated identity in the platform.
// PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail trims and lowercases an address; uniqueness is checked on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the name and canonicalizes the email in place.
func (in *SignupInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
}

func (in SignupInput) Validate() error {
	var errs ValidationErrors
	validateName(&errs, in.Name)
	validateEmail(&errs, in.Email)
	validatePassword(&errs, in.Password)
	return errs.Err()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
}

func (in LoginInput) Validate() error {
	var errs ValidationErrors
	validateEmail(&errs, in.Email)
	if in.Password == "" {
		errs.Add("password", "Password is required")
	}
	return errs.Err()
}

// ProfileUpdateInput is a partial update; nil fields are left untouched.
type ProfileUpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (in *ProfileUpdateInput) Normalize() {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		in.Email = &email
	}
}

func (in ProfileUpdateInput) Validate() error {
	var errs ValidationErrors
	if in.Name != nil {
		validateName(&errs, *in.Name)
	}
	if in.Email != nil {
		validateEmail(&errs, *in.Email)
	}
	if in.Password != nil {
		validatePassword(&errs, *in.Password)
	}
	return errs.Err()
}

func validateName(errs *ValidationErrors, name string) {
	switch n := utf8.RuneCountInString(name); {
	case n < NameMinLength:
		errs.Add("name", "Name must be at least 2 characters")
	case n > NameMaxLength:
		errs.Add("name", "Name must be at most 50 characters")
	}
}

func validatePassword(errs *ValidationErrors, password string) {
	switch {
	case utf8.RuneCountInString(password) < PasswordMinLength:
		errs.Add("password", "Password must be at least 6 characters")
	case len(password) > PasswordMaxBytes:
		errs.Add("password", "Password must be at most 72 bytes")
	}
}

func validateEmail(errs *ValidationErrors, email string) {
	if !emailPattern.MatchString(email) {
		errs.Add("email", "Please provide a valid email")
	}
}
