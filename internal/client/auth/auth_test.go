package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/klinikapp/klinikd/internal/models"
)

func TestNewUserHashesPassword(t *testing.T) {
	u, err := NewUser("u1", "Admin Utama", "admin", "adminpassword", "Administrator", "admin@klinik.com")
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	if u.Password == "adminpassword" {
		t.Fatal("password stored in cleartext")
	}
	if !strings.HasPrefix(u.Password, "$2") {
		t.Errorf("password does not look like a bcrypt hash: %q", u.Password)
	}
}

func TestVerify(t *testing.T) {
	admin, err := NewUser("u1", "Admin Utama", "admin", "adminpassword", "Administrator", "admin@klinik.com")
	if err != nil {
		t.Fatal(err)
	}
	inactive, err := NewUser("u2", "Bekas Staf", "lama", "rahasia", "Kasir", "lama@klinik.com")
	if err != nil {
		t.Fatal(err)
	}
	inactive.Status = "Nonaktif"
	users := []models.AppUser{admin, inactive}

	got, err := Verify(users, "admin", "adminpassword")
	if err != nil {
		t.Fatalf("Verify failed for valid credentials: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("wrong user returned: %+v", got)
	}

	for name, tc := range map[string]struct{ username, password string }{
		"wrong password": {"admin", "nope"},
		"unknown user":   {"ghost", "adminpassword"},
		"inactive user":  {"lama", "rahasia"},
	} {
		if _, err := Verify(users, tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%s: err = %v; want ErrInvalidCredentials", name, err)
		}
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password accepted")
	}
}
