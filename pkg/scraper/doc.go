// Package scraper orchestrates video discovery and batch scanning.
//
// Architecture:
//
// Resolver decides which videos belong to an owner:
//   - the video.get listing is used whenever it returns at least one video
//   - otherwise the rendered video page is scraped and its result is used
//     as is, even when empty
//
// The two sources are never merged. Resolve also reports where the list
// came from and why the API listing was empty.
//
// Scanner walks every stored user in id order, one at a time, and for each
// video stores the video row and then the user-video link. The first error
// aborts the batch. With a checkpoint attached, users finished in an
// interrupted run are skipped on resume.
//
// Usage:
//
//	client := vk.NewClient(cfg.VK, limiter, log)
//	resolver := scraper.NewResolver(client, vk.NewPageScraper(client), log)
//
//	s := scraper.NewScanner(resolver, storage.NewStore(db), log)
//	summary, err := s.ScanAll(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Elapsed time: %s\n", summary.Duration)
package scraper
