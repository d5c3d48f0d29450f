package scraper

import (
	"context"

	"vkscan/pkg/models"
	"vkscan/pkg/vk"
)

// VideoLister pages through the official video listing
type VideoLister interface {
	ListVideos(ctx context.Context, ownerID int64) (*vk.Listing, error)
}

// PageFetcher scrapes the rendered video page
type PageFetcher interface {
	Scrape(ctx context.Context, ownerID int64) vk.ScrapeResult
}

// VideoResolver decides which videos belong to an owner
type VideoResolver interface {
	Resolve(ctx context.Context, ownerID int64) (*Resolution, error)
}

// VideoStore is the part of storage the scanner writes to
type VideoStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpsertVideo(ctx context.Context, video models.Video) error
	Link(ctx context.Context, userID, videoID int64) error
}

// Reporter receives scan progress for display
type Reporter interface {
	ScanStarted(totalUsers int)
	UserStarted(user models.User)
	UserFinished(scan UserScan)
	ScanFinished(summary *ScanSummary)
}

type nopReporter struct{}

func (nopReporter) ScanStarted(int)           {}
func (nopReporter) UserStarted(models.User)   {}
func (nopReporter) UserFinished(UserScan)     {}
func (nopReporter) ScanFinished(*ScanSummary) {}
