// Package secrets keeps JWT signing material in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "devpick"

// Item names a stored secret.
type Item string

const (
	// HMACSecret is the shared secret for HS* algorithms.
	HMACSecret Item = "jwt-secret"
	// PrivateKey is the PEM RSA private key for RS* algorithms.
	PrivateKey Item = "jwt-private-key"
)

// envVars maps items to their environment fallback.
var envVars = map[Item]string{
	HMACSecret: "DEVPICK_JWT_SECRET",
	PrivateKey: "DEVPICK_JWT_PRIVATE_KEY",
}

// EnvVar returns the environment variable consulted for item.
func EnvVar(item Item) string { return envVars[item] }

// Source tells where a secret was found.
type Source string

const (
	SourceNone     Source = ""
	SourceKeychain Source = "Keychain"
	SourceEnv      Source = "Environment Variable"
)

// Store reads and writes secrets for one keychain service.
type Store struct {
	service  string
	allowEnv bool
}

// NewStore returns a Store for the devpick service. When allowEnv is true,
// Get falls back to the DEVPICK_* environment variables.
func NewStore(allowEnv bool) *Store {
	return &Store{service: serviceName, allowEnv: allowEnv}
}

// Get returns the secret and where it came from. A missing secret is not an
// error; it returns "" and SourceNone.
func (s *Store) Get(item Item) (string, Source, error) {
	value, err := keyring.Get(s.service, string(item))
	switch {
	case err == nil && value != "":
		return value, SourceKeychain, nil
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		if v, ok := s.env(item); ok {
			return v, SourceEnv, nil
		}
		return "", SourceNone, fmt.Errorf("read %s from keychain: %w", item, err)
	}

	if v, ok := s.env(item); ok {
		return v, SourceEnv, nil
	}
	return "", SourceNone, nil
}

func (s *Store) env(item Item) (string, bool) {
	if !s.allowEnv {
		return "", false
	}
	v := strings.TrimSpace(os.Getenv(envVars[item]))
	return v, v != ""
}

// Set saves value in the keychain. Surrounding whitespace is kept for
// PEM keys and trimmed for the HMAC secret.
func (s *Store) Set(item Item, value string) error {
	if item == HMACSecret {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		return fmt.Errorf("refusing to store an empty %s", item)
	}
	if err := keyring.Set(s.service, string(item), value); err != nil {
		return fmt.Errorf("save %s to keychain: %w", item, err)
	}
	return nil
}

// Delete removes item from the keychain. Deleting a missing item succeeds.
func (s *Store) Delete(item Item) error {
	err := keyring.Delete(s.service, string(item))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s from keychain: %w", item, err)
	}
	return nil
}

// Has reports whether item is stored in the keychain.
func (s *Store) Has(item Item) bool {
	v, err := keyring.Get(s.service, string(item))
	return err == nil && v != ""
}
