package auth

import (
	"fmt"
	"sort"

	"github.com/antibyte/englang/pkg/configuration"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash stored in the [Users] section.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %v", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckCredentials looks the user up in the [Users] section of the
// configuration.
func CheckCredentials(username, password string) bool {
	hash := configuration.GetString("Users", username, "")
	if username == "" || hash == "" {
		return false
	}
	return CheckPassword(hash, password)
}

// ConfiguredUsers returns the sorted account names of the [Users] section.
// Accounts that exist only as environment overrides are not listed.
func ConfiguredUsers() []string {
	users := configuration.GetSection("Users")
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
