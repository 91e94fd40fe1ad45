// Package auth verifies staff logins against the users collection.
//
// Passwords are bcrypt-hashed here before a user record ever enters the
// state layer, so the snapshot that gets pushed to the relay or written to a
// backup file never carries anything recoverable.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/klinikapp/klinikd/internal/models"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password;
// callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// HashPassword bcrypt-hashes a cleartext password for storage in an AppUser.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// NewUser builds a staff account with the password hashed.
func NewUser(id, name, username, password, role, email string) (models.AppUser, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.AppUser{}, err
	}
	return models.AppUser{
		ID:       id,
		Name:     name,
		Username: username,
		Password: hash,
		Role:     role,
		Email:    email,
		Status:   "Aktif",
	}, nil
}

// Verify checks username/password against the given users. Inactive accounts
// cannot log in.
func Verify(users []models.AppUser, username, password string) (models.AppUser, error) {
	for _, u := range users {
		if u.Username != username {
			continue
		}
		if u.Status != "Aktif" {
			return models.AppUser{}, ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return models.AppUser{}, ErrInvalidCredentials
		}
		return u, nil
	}
	return models.AppUser{}, ErrInvalidCredentials
}
