// Package models holds the records vkscan discovers and persists.
package models

// User is a VK account registered for scanning. ID is assigned by VK.
type User struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// Video is a single VK video. URL is nil when neither the API nor the page
// exposed a player link.
type Video struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	URL   *string `json:"url,omitempty"`
}

// URLOrEmpty returns the player URL or "" when it is unknown
func (v Video) URLOrEmpty() string {
	if v.URL == nil {
		return ""
	}
	return *v.URL
}

// UserVideo links a user to a video they own or share
type UserVideo struct {
	UserID  int64 `json:"user_id"`
	VideoID int64 `json:"video_id"`
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
