package scraper_test

import (
	"context"
	"fmt"

	"vkscan/pkg/logger"
	"vkscan/pkg/models"
	"vkscan/pkg/scraper"
	"vkscan/pkg/vk"
)

type emptyAPI struct{}

func (emptyAPI) ListVideos(ctx context.Context, ownerID int64) (*vk.Listing, error) {
	return &vk.Listing{Videos: []models.Video{}, Status: vk.ListingEmpty}, nil
}

type staticPage struct{}

func (staticPage) Scrape(ctx context.Context, ownerID int64) vk.ScrapeResult {
	return vk.ScrapeResult{Videos: []models.Video{
		{ID: 77, Title: "Trailer", URL: models.StringPtr("https://vk.com/video77")},
	}}
}

func ExampleResolver_Resolve() {
	r := scraper.NewResolver(emptyAPI{}, staticPage{}, logger.NewNopLogger())

	res, err := r.Resolve(context.Background(), 42)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Source, res.ListingStatus)
	for _, v := range res.Videos {
		fmt.Println(v.ID, v.Title, v.URLOrEmpty())
	}
	// Output:
	// scrape empty
	// 77 Trailer https://vk.com/video77
}
