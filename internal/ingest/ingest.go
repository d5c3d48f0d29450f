// Package ingest registers users from a list of VK handles.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"vkscan/pkg/logger"
	"vkscan/pkg/models"
)

// IDResolver turns a handle into a numeric VK id
type IDResolver interface {
	ResolveUserID(ctx context.Context, handle string) (int64, error)
}

// UserStore persists users
type UserStore interface {
	UpsertUser(ctx context.Context, id int64, nickname string) error
}

// Result lists the users registered by one ingest run
type Result struct {
	Users []models.User
	Lines int
}

// Ingester resolves handles and stores them as users
type Ingester struct {
	resolver IDResolver
	store    UserStore
	logger   logger.Logger
}

// New creates an ingester. A nil logger uses the global one.
func New(resolver IDResolver, store UserStore, log logger.Logger) *Ingester {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Ingester{
		resolver: resolver,
		store:    store,
		logger:   log.WithField("component", "ingest"),
	}
}

// AddUsersFromFile reads handles from path, one per line
func (in *Ingester) AddUsersFromFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()

	return in.AddUsers(ctx, f)
}

// AddUsers registers every handle in r. Lines are trimmed and blank lines are
// skipped. The handle is stored as the nickname. Resolution or storage errors
// stop the run; users added before the error stay stored.
func (in *Ingester) AddUsers(ctx context.Context, r io.Reader) (*Result, error) {
	result := &Result{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		result.Lines++
		handle := strings.TrimSpace(scanner.Text())
		if handle == "" {
			continue
		}

		id, err := in.resolver.ResolveUserID(ctx, handle)
		if err != nil {
			return result, fmt.Errorf("failed to resolve %q on line %d: %w", handle, result.Lines, err)
		}
		if err := in.store.UpsertUser(ctx, id, handle); err != nil {
			return result, fmt.Errorf("failed to store user %q: %w", handle, err)
		}

		result.Users = append(result.Users, models.User{ID: id, Nickname: handle})
		in.logger.InfoWithFields("Added user", map[string]interface{}{
			"handle":  handle,
			"user_id": id,
		})
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read users: %w", err)
	}

	return result, nil
}
