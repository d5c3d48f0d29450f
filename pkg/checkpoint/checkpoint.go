package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"vkscan/pkg/logger"
)

// CurrentVersion is the on-disk format version
const CurrentVersion = 1

// Checkpoint records the progress of a batch scan
type Checkpoint struct {
	Name           string        `json:"name"`
	CompletedUsers map[int64]int `json:"completed_users"` // user id -> videos stored
	TotalUsers     int           `json:"total_users"`
	VideosStored   int           `json:"videos_stored"`
	LastUserID     int64         `json:"last_user_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Version        int           `json:"version"`
}

// Manager handles checkpoint operations
type Manager struct {
	name           string
	checkpointPath string
	logger         logger.Logger
}

// NameFor derives a stable checkpoint name for a database so scans of
// different databases never share progress
func NameFor(driver, dsn string) string {
	sum := sha256.Sum256([]byte(driver + "\x00" + dsn))
	return "scan-" + hex.EncodeToString(sum[:6])
}

// NewManager creates a checkpoint manager in the platform data directory
func NewManager(name string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}
	return NewManagerIn(filepath.Join(dataDir, "checkpoints"), name)
}

// NewManagerIn creates a checkpoint manager storing its file in dir
func NewManagerIn(dir, name string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}
	return &Manager{
		name:           name,
		checkpointPath: filepath.Join(dir, name+".checkpoint.json"),
		logger:         logger.GetLogger().WithField("component", "checkpoint"),
	}, nil
}

// Name returns the checkpoint name
func (m *Manager) Name() string {
	return m.name
}

// Path returns the checkpoint file location
func (m *Manager) Path() string {
	return m.checkpointPath
}

// Create starts a fresh checkpoint and saves it
func (m *Manager) Create(name string, totalUsers int) (*Checkpoint, error) {
	now := time.Now()
	cp := &Checkpoint{
		Name:           name,
		CompletedUsers: make(map[int64]int),
		TotalUsers:     totalUsers,
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        CurrentVersion,
	}

	if err := m.Save(cp); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint created", map[string]interface{}{
		"name": name,
		"path": m.checkpointPath,
	})
	return cp, nil
}

// Load reads the checkpoint. It returns nil, nil when none exists.
func (m *Manager) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if cp.Version > CurrentVersion {
		return nil, fmt.Errorf("checkpoint version %d is newer than supported version %d", cp.Version, CurrentVersion)
	}
	if cp.CompletedUsers == nil {
		cp.CompletedUsers = make(map[int64]int)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"name":            cp.Name,
		"completed_users": len(cp.CompletedUsers),
		"videos_stored":   cp.VideosStored,
		"updated_at":      cp.UpdatedAt,
	})
	return &cp, nil
}

// Save writes the checkpoint atomically through a temporary file
func (m *Manager) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"completed_users": len(cp.CompletedUsers),
		"videos_stored":   cp.VideosStored,
	})
	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	m.logger.Debug("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// RecordUser marks a user as fully scanned and saves the checkpoint
func (m *Manager) RecordUser(cp *Checkpoint, userID int64, videos int) error {
	cp.CompletedUsers[userID] = videos
	cp.VideosStored += videos
	cp.LastUserID = userID
	return m.Save(cp)
}

// IsUserDone reports whether a user was completed in this checkpoint
func (cp *Checkpoint) IsUserDone(userID int64) bool {
	_, ok := cp.CompletedUsers[userID]
	return ok
}

// GetCheckpointInfo returns a summary of the checkpoint, or nil when none exists
func (m *Manager) GetCheckpointInfo() (map[string]interface{}, error) {
	cp, err := m.Load()
	if err != nil || cp == nil {
		return nil, err
	}

	return map[string]interface{}{
		"name":            cp.Name,
		"completed_users": len(cp.CompletedUsers),
		"total_users":     cp.TotalUsers,
		"videos_stored":   cp.VideosStored,
		"created_at":      cp.CreatedAt,
		"updated_at":      cp.UpdatedAt,
		"age":             time.Since(cp.UpdatedAt),
	}, nil
}

// getDataDirectory returns the data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "vkscan")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "vkscan")
	default:
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "vkscan")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "vkscan")
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}
