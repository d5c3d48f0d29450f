package scraper

import (
	"context"
	"fmt"

	"vkscan/pkg/logger"
	"vkscan/pkg/models"
	"vkscan/pkg/vk"
)

// Source names where a video list came from
type Source string

const (
	SourceAPI    Source = "api"
	SourceScrape Source = "scrape"
	SourceNone   Source = "none"
)

// Resolution is the outcome of resolving one owner's videos
type Resolution struct {
	OwnerID       int64
	Videos        []models.Video
	Source        Source
	ListingStatus vk.ListingStatus
	APIError      *vk.APIError
	ScrapeErr     error
}

// Resolver prefers the API listing and falls back to the page scrape when
// the listing is empty. The two sources are never merged.
type Resolver struct {
	api      VideoLister
	fallback PageFetcher
	logger   logger.Logger
}

// NewResolver creates a resolver. A nil logger uses the global one.
func NewResolver(api VideoLister, fallback PageFetcher, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		api:      api,
		fallback: fallback,
		logger:   log.WithField("component", "resolver"),
	}
}

// ResolveVideos returns the videos of ownerID
func (r *Resolver) ResolveVideos(ctx context.Context, ownerID int64) ([]models.Video, error) {
	res, err := r.Resolve(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return res.Videos, nil
}

// Resolve returns the videos of ownerID together with where they came from.
// API errors are returned as is; scrape failures only leave the list empty.
func (r *Resolver) Resolve(ctx context.Context, ownerID int64) (*Resolution, error) {
	log := r.logger.WithField("owner_id", ownerID)

	listing, err := r.api.ListVideos(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos of %d: %w", ownerID, err)
	}

	res := &Resolution{
		OwnerID:       ownerID,
		ListingStatus: listing.Status,
		APIError:      listing.APIError,
	}
	if len(listing.Videos) > 0 {
		res.Videos = listing.Videos
		res.Source = SourceAPI
		return res, nil
	}

	log.InfoWithFields("VK API got 0 videos. Trying simple http request...", map[string]interface{}{
		"listing_status": string(listing.Status),
	})

	scraped := r.fallback.Scrape(ctx, ownerID)
	if scraped.Err != nil {
		log.WarnWithFields("page scrape failed, returning no videos", map[string]interface{}{
			"reason": scraped.Err.Error(),
		})
		res.Videos = []models.Video{}
		res.Source = SourceNone
		res.ScrapeErr = scraped.Err
		return res, nil
	}

	res.Videos = scraped.Videos
	if res.Videos == nil {
		res.Videos = []models.Video{}
	}
	res.Source = SourceScrape
	if len(res.Videos) == 0 {
		res.Source = SourceNone
	}
	return res, nil
}
