package vk

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// UsersGetMethod resolves screen names to numeric ids
	UsersGetMethod = "users.get"

	// VideoGetMethod lists the videos of an owner
	VideoGetMethod = "video.get"

	// MaxPageSize is the largest count video.get accepts
	MaxPageSize = 200
)

// usersGetURL builds the users.get request for a single handle
func (c *Client) usersGetURL(handle string) string {
	params := url.Values{}
	params.Set("user_ids", handle)
	return c.methodURL(UsersGetMethod, params)
}

// videoGetURL builds one video.get page request
func (c *Client) videoGetURL(ownerID int64, offset int) string {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("count", strconv.Itoa(c.pageSize))
	params.Set("offset", strconv.Itoa(offset))
	return c.methodURL(VideoGetMethod, params)
}

func (c *Client) methodURL(method string, params url.Values) string {
	params.Set("access_token", c.accessToken)
	params.Set("v", c.apiVersion)
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.apiBaseURL, "/"), method, params.Encode())
}

// videoPageURL is the public video tab of a user profile
func (c *Client) videoPageURL(ownerID int64) string {
	return fmt.Sprintf("%s/video/@id%d", strings.TrimRight(c.webBaseURL, "/"), ownerID)
}
