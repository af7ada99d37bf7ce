package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
)

// Address is the default shipping destination stored on the user profile.
type Address struct {
	Street  string
	City    string
	ZipCode string
	Country string
}

// User represents a storefront customer.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   Address
}

// NewUser builds a user ensuring required invariants.
func NewUser(id int64, username, email string) (*User, error) {
	user := &User{ID: id}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetEmail normalizes the email to lower case. Orders are looked up by this value.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// UpdateProfile applies optional profile fields.
func (u *User) UpdateProfile(firstName, lastName, phone string) {
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
}

// UpdateAddress replaces the default shipping address.
func (u *User) UpdateAddress(addr Address) {
	u.Address = Address{
		Street:  strings.TrimSpace(addr.Street),
		City:    strings.TrimSpace(addr.City),
		ZipCode: strings.TrimSpace(addr.ZipCode),
		Country: strings.TrimSpace(addr.Country),
	}
}

// DisplayName is "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	return u.SetEmail(u.Email)
}
