package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkscan/pkg/logger"
	"vkscan/pkg/models"
	"vkscan/pkg/vk"
)

type fakeLister struct {
	listings map[int64]*vk.Listing
	err      error
	calls    int
}

func (f *fakeLister) ListVideos(ctx context.Context, ownerID int64) (*vk.Listing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if l, ok := f.listings[ownerID]; ok {
		return l, nil
	}
	return &vk.Listing{Videos: []models.Video{}, Status: vk.ListingEmpty, Pages: 1}, nil
}

type fakeFetcher struct {
	results map[int64]vk.ScrapeResult
	calls   int
}

func (f *fakeFetcher) Scrape(ctx context.Context, ownerID int64) vk.ScrapeResult {
	f.calls++
	if r, ok := f.results[ownerID]; ok {
		return r
	}
	return vk.ScrapeResult{Videos: []models.Video{}}
}

func video(id int64, title string) models.Video {
	return models.Video{ID: id, Title: title, URL: models.StringPtr("https://vk.com/video" + title)}
}

func TestResolveUsesAPIWhenNonEmpty(t *testing.T) {
	api := &fakeLister{listings: map[int64]*vk.Listing{
		42: {Videos: []models.Video{video(1, "a"), video(2, "b")}, Status: vk.ListingOK},
	}}
	page := &fakeFetcher{results: map[int64]vk.ScrapeResult{
		42: {Videos: []models.Video{video(9, "never")}},
	}}
	r := NewResolver(api, page, logger.NewNopLogger())

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, res.Source)
	assert.Equal(t, vk.ListingOK, res.ListingStatus)
	assert.Len(t, res.Videos, 2)
	assert.Zero(t, page.calls, "the page is never scraped when the API has videos")
}

func TestResolveFallsBackOnEmptyListing(t *testing.T) {
	scraped := []models.Video{video(77, "Trailer")}
	api := &fakeLister{}
	page := &fakeFetcher{results: map[int64]vk.ScrapeResult{42: {Videos: scraped}}}
	log := logger.NewTestLogger()
	r := NewResolver(api, page, log)

	videos, err := r.ResolveVideos(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, scraped, videos)
	assert.Equal(t, 1, page.calls)
	assert.True(t, log.HasMessage("VK API got 0 videos. Trying simple http request..."))
}

func TestResolveFallsBackOnAPIError(t *testing.T) {
	apiErr := &vk.APIError{Code: vk.ErrCodePrivateProfile, Message: "This profile is private"}
	api := &fakeLister{listings: map[int64]*vk.Listing{
		42: {Videos: []models.Video{}, Status: vk.ListingAPIError, APIError: apiErr},
	}}
	page := &fakeFetcher{results: map[int64]vk.ScrapeResult{42: {Videos: []models.Video{video(5, "x")}}}}
	r := NewResolver(api, page, logger.NewNopLogger())

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, SourceScrape, res.Source)
	assert.Equal(t, vk.ListingAPIError, res.ListingStatus)
	assert.Same(t, apiErr, res.APIError)
	assert.Len(t, res.Videos, 1)
}

func TestResolveBothEmpty(t *testing.T) {
	r := NewResolver(&fakeLister{}, &fakeFetcher{}, logger.NewNopLogger())

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, SourceNone, res.Source)
	assert.NotNil(t, res.Videos)
	assert.Empty(t, res.Videos)
}

func TestResolveScrapeFailureIsSwallowed(t *testing.T) {
	scrapeErr := errors.New("login wall")
	page := &fakeFetcher{results: map[int64]vk.ScrapeResult{42: {Err: scrapeErr}}}
	log := logger.NewTestLogger()
	r := NewResolver(&fakeLister{}, page, log)

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, SourceNone, res.Source)
	assert.Empty(t, res.Videos)
	assert.Equal(t, scrapeErr, res.ScrapeErr)
	assert.NotEmpty(t, log.GetMessagesByLevel("WARN"))
}

func TestResolveAPIErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	page := &fakeFetcher{}
	r := NewResolver(&fakeLister{err: boom}, page, logger.NewNopLogger())

	_, err := r.Resolve(context.Background(), 42)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, page.calls)
}
