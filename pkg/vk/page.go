package vk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vkscan/pkg/logger"
	"vkscan/pkg/models"
)

const (
	videoContainerSelector = "#video_subtab_pane_all"
	videoAnchorSelector    = "a.VideoCard__title"
)

// ErrContainerNotFound is returned when the page has no video tab
var ErrContainerNotFound = errors.New("video container not found")

// ScrapeResult is the outcome of one page scrape. Err is set when nothing
// usable could be extracted; Videos is then empty.
type ScrapeResult struct {
	Videos []models.Video
	Err    error
}

// PageScraper reads the public video tab of a profile without the API
type PageScraper struct {
	client *Client
	logger logger.Logger
}

// NewPageScraper creates a scraper that shares the client's transport and limiter
func NewPageScraper(client *Client) *PageScraper {
	return &PageScraper{
		client: client,
		logger: client.logger.WithField("source", "page"),
	}
}

// FetchVideos scrapes the video tab of ownerID. Any failure yields an empty
// list; the reason is logged.
func (s *PageScraper) FetchVideos(ctx context.Context, ownerID int64) []models.Video {
	result := s.Scrape(ctx, ownerID)
	if result.Err != nil {
		s.logger.WarnWithFields("page scrape failed, returning no videos", map[string]interface{}{
			"owner_id": ownerID,
			"reason":   result.Err.Error(),
		})
		return []models.Video{}
	}
	return result.Videos
}

// Scrape performs a single GET of the video tab and parses it
func (s *PageScraper) Scrape(ctx context.Context, ownerID int64) ScrapeResult {
	pageURL := s.client.videoPageURL(ownerID)

	resp, err := s.client.get(ctx, pageURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return ScrapeResult{Err: err}
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return ScrapeResult{Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ScrapeResult{Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	base, err := url.Parse(s.client.webBaseURL)
	if err != nil {
		return ScrapeResult{Err: fmt.Errorf("invalid web base URL: %w", err)}
	}

	videos, err := ParseVideoPage(doc, base)
	if err != nil {
		return ScrapeResult{Err: err}
	}

	s.logger.DebugWithFields("scraped video page", map[string]interface{}{
		"owner_id": ownerID,
		"videos":   len(videos),
	})
	return ScrapeResult{Videos: videos}
}

// ParseVideoPage extracts videos from the video tab container. Hrefs are
// resolved against base. One malformed card fails the whole page.
func ParseVideoPage(doc *goquery.Document, base *url.URL) ([]models.Video, error) {
	container := doc.Find(videoContainerSelector).First()
	if container.Length() == 0 {
		return nil, ErrContainerNotFound
	}

	videos := []models.Video{}
	var parseErr error
	container.Find(videoAnchorSelector).EachWithBreak(func(i int, a *goquery.Selection) bool {
		video, err := parseVideoCard(a, base)
		if err != nil {
			parseErr = fmt.Errorf("video card %d: %w", i, err)
			return false
		}
		videos = append(videos, video)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return videos, nil
}

// parseVideoCard reads one anchor. data-id has the form <owner>_<video id>.
func parseVideoCard(a *goquery.Selection, base *url.URL) (models.Video, error) {
	dataID, ok := a.Attr("data-id")
	if !ok {
		return models.Video{}, errors.New("missing data-id")
	}
	parts := strings.Split(dataID, "_")
	if len(parts) < 2 {
		return models.Video{}, fmt.Errorf("malformed data-id %q", dataID)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return models.Video{}, fmt.Errorf("malformed data-id %q: %w", dataID, err)
	}

	video := models.Video{
		ID:    id,
		Title: strings.TrimSpace(a.Text()),
	}

	if href, ok := a.Attr("href"); ok && href != "" {
		ref, err := url.Parse(href)
		if err != nil {
			return models.Video{}, fmt.Errorf("malformed href %q: %w", href, err)
		}
		video.URL = models.StringPtr(base.ResolveReference(ref).String())
	}

	return video, nil
}
