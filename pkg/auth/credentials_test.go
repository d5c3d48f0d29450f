package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	account := &Account{
		Name:        "main",
		AccessToken: "vk1.a.test_access_token_12345",
		UserID:      42,
	}
	require.NoError(t, manager.Store(account))
	assert.False(t, account.LastModified.IsZero())

	retrieved, err := manager.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, account.AccessToken, retrieved.AccessToken)
	assert.Equal(t, int64(42), retrieved.UserID)

	token, err := manager.Token("main")
	require.NoError(t, err)
	assert.Equal(t, account.AccessToken, token)

	accounts, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, manager.Delete("main"))
	_, err = manager.Retrieve("main")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.Zero(t, mockStore.Count())
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	assert.Error(t, manager.Store(&Account{AccessToken: "x"}))
	assert.Error(t, manager.Store(&Account{Name: "main"}))
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()
	manager := NewManagerWithStores(broken, working)

	require.NoError(t, manager.Store(&Account{Name: "main", AccessToken: "token-value"}))
	assert.Zero(t, broken.Count())
	assert.Equal(t, 1, working.Count())

	retrieved, err := manager.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "token-value", retrieved.AccessToken)
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()
	now := time.Now()
	require.NoError(t, older.Store(&Account{Name: "main", AccessToken: "old", LastModified: now.Add(-time.Hour)}))
	require.NoError(t, newer.Store(&Account{Name: "main", AccessToken: "new", LastModified: now}))
	require.NoError(t, newer.Store(&Account{Name: "spare", AccessToken: "spare", LastModified: now.Add(-2 * time.Hour)}))

	accounts, err := NewManagerWithStores(older, newer).List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "main", accounts[0].Name)
	assert.Equal(t, "new", accounts[0].AccessToken)
	assert.Equal(t, "spare", accounts[1].Name)
}

func TestRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("VKSCAN_ACCESS_TOKEN", "env-token")
	store := NewMockStore()
	require.NoError(t, store.Store(&Account{Name: "main", AccessToken: "stored", LastModified: time.Now()}))
	manager := NewManagerWithStores(store, NewEnvironmentStore())

	token, err := manager.Token("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)
}

func TestRetrieveDefaultWithoutCredentials(t *testing.T) {
	t.Setenv("VKSCAN_ACCESS_TOKEN", "")
	manager := NewManagerWithStores(NewMockStore(), NewEnvironmentStore())

	_, err := manager.Token("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestSanitizeAccount(t *testing.T) {
	account := &Account{Name: "main", AccessToken: "vk1.a.abcdefghijklmnop", UserID: 7}

	sanitized := SanitizeAccount(account)
	assert.Equal(t, "vk1....mnop", sanitized.AccessToken)
	assert.Equal(t, "main", sanitized.Name)
	assert.Equal(t, int64(7), sanitized.UserID)
	assert.Equal(t, "********", maskString("short"))
	assert.Nil(t, SanitizeAccount(nil))
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	require.NoError(t, err)

	require.NoError(t, store.Store(&Account{Name: "main", AccessToken: "secret-token", LastModified: time.Now()}))
	require.NoError(t, store.Store(&Account{Name: "spare", AccessToken: "other-token", LastModified: time.Now()}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "secret-token")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	retrieved, err := store.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", retrieved.AccessToken)
	assert.True(t, store.Exists("spare"))

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	require.NoError(t, store.Delete("main"))
	assert.False(t, store.Exists("main"))
	require.NoError(t, store.Delete("spare"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "the file is removed with the last account")
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	store, err := NewEncryptedFileStoreWithPassphrase(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Store(&Account{Name: "main", AccessToken: "secret-token"}))

	other, err := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	require.NoError(t, err)
	_, err = other.Retrieve("main")
	assert.ErrorContains(t, err, "failed to decrypt")
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv("VKSCAN_PASSPHRASE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	first, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Store(&Account{Name: "main", AccessToken: "secret-token"}))

	_, err = os.Stat(filepath.Join(dir, ".passphrase"))
	require.NoError(t, err)

	second, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	retrieved, err := second.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", retrieved.AccessToken)
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv("VKSCAN_ACCESS_TOKEN", "")
	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))

	t.Setenv("VKSCAN_ACCESS_TOKEN", "env-token")
	t.Setenv("VKSCAN_USER_ID", "42")
	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Name)
	assert.Equal(t, "env-token", account.AccessToken)
	assert.Equal(t, int64(42), account.UserID)

	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&Account{Name: "main", AccessToken: "keychain-token"}))
	assert.True(t, store.Exists("main"))

	retrieved, err := store.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "keychain-token", retrieved.AccessToken)

	require.NoError(t, store.Delete("main"))
	_, err = store.Retrieve("main")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Delete("main"), ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Store(&Account{}), ErrInvalidCredentials)
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()
	require.NoError(t, store.Store(&Account{Name: "main", AccessToken: "a"}))

	account, err := store.GetAccount("main")
	require.NoError(t, err)
	account.AccessToken = "mutated"

	again, err := store.Retrieve("main")
	require.NoError(t, err)
	assert.Equal(t, "a", again.AccessToken, "stored accounts are copies")

	store.DeleteError = errors.New("boom")
	assert.EqualError(t, store.Delete("main"), "boom")

	store.Clear()
	assert.Zero(t, store.Count())
}
