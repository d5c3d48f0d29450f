// Package vk fetches VK user ids and video listings.
//
// Client wraps the two API methods the scanner needs:
//
//   - users.get, through ResolveUserID, which polls at a fixed interval until
//     the reply carries an id
//   - video.get, through FetchVideos and ListVideos, which page with
//     count/offset until a short or empty page
//
// PageScraper reads the public vk.com/video/@id<N> page with goquery and is
// used when the API listing comes back empty. Its failures never surface as
// errors: FetchVideos returns an empty list and logs the reason.
//
// Every request goes through the client's rate limiter. The access token is
// redacted from logs and errors.
package vk
