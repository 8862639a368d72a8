package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/chronos/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the account
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves the secret stored for the given account.
func Get(account string) (string, error) {
	secret, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores a secret for the given account.
func Set(account, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret stored for the given account.
func Delete(account string) error {
	err := keyring.Delete(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(constants.KeyringDBUser)
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	return Set(constants.KeyringDBUser, connStr)
}

// GetStatsToken retrieves the bearer token for the remote stats endpoint.
func GetStatsToken() (string, error) {
	return Get(constants.KeyringStatsUser)
}

// SetStatsToken stores the bearer token for the remote stats endpoint.
func SetStatsToken(token string) error {
	return Set(constants.KeyringStatsUser, token)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
