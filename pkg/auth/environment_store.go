package auth

import (
	"os"
	"strconv"
	"time"
)

const (
	envAccessToken = "VKSCAN_ACCESS_TOKEN"
	envUserID      = "VKSCAN_USER_ID"
)

// EnvironmentStore reads a single token from VKSCAN_ACCESS_TOKEN. It is
// read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment token under the requested name, or
// "default" when name is empty
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	token := os.Getenv(envAccessToken)
	if token == "" {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = "default"
	}

	userID, _ := strconv.ParseInt(os.Getenv(envUserID), 10, 64)

	return &Account{
		Name:         name,
		AccessToken:  token,
		UserID:       userID,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if the environment token is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment token is set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv(envAccessToken) != ""
}
