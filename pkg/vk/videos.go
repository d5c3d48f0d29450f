package vk

import (
	"context"

	errs "vkscan/pkg/errors"
	"vkscan/pkg/models"
)

// ListingStatus explains how a video.get listing ended
type ListingStatus string

const (
	// ListingOK means at least one video was returned
	ListingOK ListingStatus = "ok"
	// ListingEmpty means the owner has no visible videos
	ListingEmpty ListingStatus = "empty"
	// ListingAPIError means VK answered with an error object, typically for
	// private profiles; any videos from earlier pages are discarded
	ListingAPIError ListingStatus = "api_error"
)

// Listing is the outcome of paging through video.get
type Listing struct {
	Videos   []models.Video
	Status   ListingStatus
	APIError *APIError
	Pages    int
}

// FetchVideos returns all videos of ownerID from the API, or an empty list
// when VK reports an error on any page
func (c *Client) FetchVideos(ctx context.Context, ownerID int64) ([]models.Video, error) {
	listing, err := c.ListVideos(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return listing.Videos, nil
}

// ListVideos pages through video.get and reports why the listing ended.
// Paging stops at an empty page or a page shorter than the page size.
func (c *Client) ListVideos(ctx context.Context, ownerID int64) (*Listing, error) {
	log := c.logger.WithField("owner_id", ownerID)
	listing := &Listing{}

	for offset := 0; ; offset += c.pageSize {
		var resp videoGetResponse
		if err := c.getJSON(ctx, c.videoGetURL(ownerID, offset), &resp); err != nil {
			return nil, err
		}
		listing.Pages++

		if resp.Error != nil {
			log.WarnWithFields("video.get returned an error, discarding listing", map[string]interface{}{
				"error_code": resp.Error.Code,
				"error_msg":  resp.Error.Message,
				"offset":     offset,
			})
			return &Listing{
				Videos:   []models.Video{},
				Status:   ListingAPIError,
				APIError: resp.Error,
				Pages:    listing.Pages,
			}, nil
		}
		if resp.Response == nil {
			return nil, errs.New(errs.ErrorTypeParsing, 0, "video.get reply for owner %d has neither response nor error", ownerID)
		}

		items := resp.Response.Items
		for _, item := range items {
			listing.Videos = append(listing.Videos, models.Video{
				ID:    item.ID,
				Title: item.Title,
				URL:   models.StringPtr(item.Player),
			})
		}

		log.DebugWithFields("fetched video page", map[string]interface{}{
			"offset": offset,
			"items":  len(items),
			"total":  resp.Response.Count,
		})

		if len(items) < c.pageSize {
			break
		}
	}

	if len(listing.Videos) == 0 {
		listing.Videos = []models.Video{}
		listing.Status = ListingEmpty
	} else {
		listing.Status = ListingOK
	}
	return listing, nil
}
