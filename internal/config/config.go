package config

import (
	"crypto/subtle"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Defaults match the credential the original deployment shipped with.
const (
	defaultPort          = "8080"
	defaultAdminUsername = "Admin"
	defaultAdminPassword = "Admin@#@#"
)

type Config struct {
	Port  string
	Admin Credentials
}

// Credentials holds the shared admin credential. The password is kept only as
// a bcrypt hash computed at load time.
type Credentials struct {
	Username     string
	PasswordHash []byte
}

// Load reads configuration from the environment, with a best-effort .env file
// on top (a missing .env is not an error).
func Load() (Config, error) {
	_ = godotenv.Load()

	hash, err := bcrypt.GenerateFromPassword(
		[]byte(getenv("ADMIN_PASSWORD", defaultAdminPassword)), bcrypt.DefaultCost)
	if err != nil {
		return Config{}, fmt.Errorf("hash admin password: %w", err)
	}

	return Config{
		Port: getenv("PORT", defaultPort),
		Admin: Credentials{
			Username:     getenv("ADMIN_USERNAME", defaultAdminUsername),
			PasswordHash: hash,
		},
	}, nil
}

// Verify reports whether the pair matches the shared admin credential.
func (c Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil
	return userOK && passOK
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
