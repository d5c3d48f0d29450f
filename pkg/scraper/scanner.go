package scraper

import (
	"context"
	"fmt"
	"time"

	"vkscan/pkg/checkpoint"
	"vkscan/pkg/logger"
	"vkscan/pkg/models"
	"vkscan/pkg/vk"
)

// UserScan is the result of scanning one user
type UserScan struct {
	UserID        int64
	Nickname      string
	Videos        int
	Source        Source
	ListingStatus vk.ListingStatus
}

// ScanSummary describes a finished or aborted batch scan
type ScanSummary struct {
	Users        []UserScan
	TotalUsers   int
	Skipped      int
	VideosStored int
	Duration     time.Duration
	Resumed      bool
}

// CheckpointOptions controls how an existing checkpoint is treated. By default
// an unfinished scan is resumed.
type CheckpointOptions struct {
	ForceRestart bool
}

// Scanner walks every stored user and records their videos
type Scanner struct {
	resolver      VideoResolver
	store         VideoStore
	reporter      Reporter
	checkpointMgr *checkpoint.Manager
	cpOpts        CheckpointOptions
	logger        logger.Logger
}

// NewScanner creates a scanner. A nil logger uses the global one.
func NewScanner(resolver VideoResolver, store VideoStore, log logger.Logger) *Scanner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scanner{
		resolver: resolver,
		store:    store,
		reporter: nopReporter{},
		logger:   log.WithField("component", "scanner"),
	}
}

// SetReporter attaches a progress display
func (s *Scanner) SetReporter(r Reporter) {
	if r == nil {
		r = nopReporter{}
	}
	s.reporter = r
}

// UseCheckpoint makes the scan record its progress so the next run skips
// users an interrupted run already stored
func (s *Scanner) UseCheckpoint(mgr *checkpoint.Manager, opts CheckpointOptions) {
	s.checkpointMgr = mgr
	s.cpOpts = opts
}

// ScanAll scans users one at a time in id order. For each user the videos
// are resolved, stored and linked before the next user starts. The first
// error aborts the batch; rows written before it stay written.
func (s *Scanner) ScanAll(ctx context.Context) (*ScanSummary, error) {
	start := time.Now()
	summary := &ScanSummary{}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list users: %w", err)
	}
	summary.TotalUsers = len(users)

	cp := s.prepareCheckpoint(len(users))
	summary.Resumed = cp != nil && len(cp.CompletedUsers) > 0

	logger.LogComponentStart("scanner", map[string]interface{}{
		"users":      len(users),
		"resumed":    summary.Resumed,
		"checkpoint": cp != nil,
	})
	stopReason := "aborted"
	defer func() { logger.LogComponentStop("scanner", stopReason) }()
	s.reporter.ScanStarted(len(users))

	for i, user := range users {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			stopReason = "cancelled"
			return summary, err
		}

		if cp != nil && cp.IsUserDone(user.ID) {
			s.logger.DebugWithFields("Skipping user completed in previous run", map[string]interface{}{
				"user_id":  user.ID,
				"nickname": user.Nickname,
			})
			summary.Skipped++
			continue
		}

		s.reporter.UserStarted(user)
		scan, err := s.scanUser(ctx, user)
		if err != nil {
			summary.Duration = time.Since(start)
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"user_id":  user.ID,
				"nickname": user.Nickname,
			}).Error("Scan aborted")
			return summary, fmt.Errorf("scan of user %d (%s) failed: %w", user.ID, user.Nickname, err)
		}

		summary.Users = append(summary.Users, scan)
		summary.VideosStored += scan.Videos

		if cp != nil {
			if err := s.checkpointMgr.RecordUser(cp, user.ID, scan.Videos); err != nil {
				s.logger.WithError(err).Warn("Failed to update checkpoint progress")
			}
		}

		logger.LogScanProgress(user.Nickname, i+1, len(users), scan.Videos)
		s.reporter.UserFinished(scan)
	}

	summary.Duration = time.Since(start)

	if s.checkpointMgr != nil && s.checkpointMgr.Exists() {
		if err := s.checkpointMgr.Delete(); err != nil {
			s.logger.WithError(err).Warn("Failed to delete checkpoint")
		} else {
			s.logger.Debug("Checkpoint deleted after successful completion")
		}
	}

	s.logger.InfoWithFields("Scan completed", map[string]interface{}{
		"users":         len(summary.Users),
		"skipped":       summary.Skipped,
		"videos_stored": summary.VideosStored,
		"duration_ms":   summary.Duration.Milliseconds(),
	})
	logger.LogMetrics("scan", scanMetrics(summary))
	stopReason = "completed"
	s.reporter.ScanFinished(summary)
	return summary, nil
}

// scanUser resolves one user's videos and stores each video and its link
func (s *Scanner) scanUser(ctx context.Context, user models.User) (UserScan, error) {
	scan := UserScan{UserID: user.ID, Nickname: user.Nickname}

	res, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return scan, err
	}
	scan.Source = res.Source
	scan.ListingStatus = res.ListingStatus

	for _, video := range res.Videos {
		if err := s.store.UpsertVideo(ctx, video); err != nil {
			return scan, err
		}
		if err := s.store.Link(ctx, user.ID, video.ID); err != nil {
			return scan, err
		}
		scan.Videos++
	}

	s.logger.InfoWithFields("Stored videos for user", map[string]interface{}{
		"user_id":  user.ID,
		"nickname": user.Nickname,
		"videos":   scan.Videos,
		"source":   string(scan.Source),
	})
	return scan, nil
}

// scanMetrics summarizes a finished scan for the metrics log line
func scanMetrics(summary *ScanSummary) map[string]interface{} {
	metrics := map[string]interface{}{
		"users_scanned": len(summary.Users),
		"users_skipped": summary.Skipped,
		"videos_stored": summary.VideosStored,
		"duration_ms":   summary.Duration.Milliseconds(),
	}
	if len(summary.Users) > 0 {
		metrics["avg_user_ms"] = summary.Duration.Milliseconds() / int64(len(summary.Users))
	}
	return metrics
}

// prepareCheckpoint resumes, creates or discards the checkpoint. It returns
// nil when checkpointing is off.
func (s *Scanner) prepareCheckpoint(totalUsers int) *checkpoint.Checkpoint {
	mgr := s.checkpointMgr
	if mgr == nil {
		return nil
	}

	if mgr.Exists() {
		if s.cpOpts.ForceRestart {
			if err := mgr.Delete(); err != nil {
				s.logger.WithError(err).Warn("Failed to delete existing checkpoint")
			}
		} else if cp, err := mgr.Load(); err != nil {
			s.logger.WithError(err).Warn("Unreadable checkpoint, starting over")
		} else if cp != nil {
			s.logger.InfoWithFields("Resuming from checkpoint", map[string]interface{}{
				"completed_users": len(cp.CompletedUsers),
				"videos_stored":   cp.VideosStored,
			})
			cp.TotalUsers = totalUsers
			return cp
		}
	}

	cp, err := mgr.Create(mgr.Name(), totalUsers)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to create checkpoint, continuing without it")
		return nil
	}
	return cp
}
