package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	errs "vkscan/pkg/errors"
	"vkscan/pkg/models"
)

// Store persists users, videos and their links. Every write is a single
// insert-if-absent statement committed on its own, so an interrupted scan
// leaves state that a re-run completes without duplicates.
type Store struct {
	db *DB
}

// Stats holds row counts per table
type Stats struct {
	Users  int64 `json:"users"`
	Videos int64 `json:"videos"`
	Links  int64 `json:"links"`
}

// NewStore creates a store over an open database handle
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// UpsertUser inserts the user unless a row with the same id exists.
// An existing nickname is never overwritten.
func (s *Store) UpsertUser(ctx context.Context, id int64, nickname string) error {
	query := s.db.rebind(`
		INSERT INTO users (id, nickname)
		VALUES (?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	if _, err := s.db.ExecContext(ctx, query, id, nickname); err != nil {
		return fmt.Errorf("failed to insert user %d: %w", id, err)
	}
	return nil
}

// UpsertVideo inserts the video unless a row with the same id exists
func (s *Store) UpsertVideo(ctx context.Context, video models.Video) error {
	query := s.db.rebind(`
		INSERT INTO videos (id, title, url)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	var url sql.NullString
	if video.URL != nil {
		url = sql.NullString{String: *video.URL, Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, query, video.ID, video.Title, url); err != nil {
		return fmt.Errorf("failed to insert video %d: %w", video.ID, err)
	}
	return nil
}

// Link associates a user with a video. Both rows must already exist.
func (s *Store) Link(ctx context.Context, userID, videoID int64) error {
	query := s.db.rebind(`
		INSERT INTO uservideo (user_id, video_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, video_id) DO NOTHING
	`)
	if _, err := s.db.ExecContext(ctx, query, userID, videoID); err != nil {
		return fmt.Errorf("failed to link user %d to video %d: %w", userID, videoID, err)
	}
	return nil
}

// ListUsers returns every registered user ordered by id
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nickname FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Nickname); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser returns the user with the given id
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.db.rebind(`SELECT id, nickname FROM users WHERE id = ?`), id).
		Scan(&u.ID, &u.Nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.ErrorTypeNotFound, 0, "user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

// GetVideo returns the video with the given id
func (s *Store) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	var (
		v   models.Video
		url sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.db.rebind(`SELECT id, title, url FROM videos WHERE id = ?`), id).
		Scan(&v.ID, &v.Title, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.ErrorTypeNotFound, 0, "video %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video %d: %w", id, err)
	}
	if url.Valid {
		v.URL = &url.String
	}
	return &v, nil
}

// VideosForUser returns the videos linked to a user ordered by video id
func (s *Store) VideosForUser(ctx context.Context, userID int64) ([]models.Video, error) {
	rows, err := s.db.QueryContext(ctx, s.db.rebind(`
		SELECT v.id, v.title, v.url
		FROM videos v
		JOIN uservideo uv ON uv.video_id = v.id
		WHERE uv.user_id = ?
		ORDER BY v.id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos for user %d: %w", userID, err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var (
			v   models.Video
			url sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Title, &url); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		if url.Valid {
			v.URL = &url.String
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// CountLinks returns the number of videos linked to a user
func (s *Store) CountLinks(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, s.db.rebind(`SELECT COUNT(*) FROM uservideo WHERE user_id = ?`), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count links for user %d: %w", userID, err)
	}
	return n, nil
}

// DeleteUser removes a user; its links go with it
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.ErrorTypeNotFound, 0, "user %d not found", id)
	}
	return nil
}

// Stats returns row counts for all three tables
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM uservideo)
	`).Scan(&st.Users, &st.Videos, &st.Links)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return &st, nil
}
