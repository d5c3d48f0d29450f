package vk

import "fmt"

// APIError is the error object VK returns in place of a response
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// VK error codes the client reacts to
const (
	ErrCodeTooManyRequests = 6
	ErrCodeAccessDenied    = 15
	ErrCodePrivateProfile  = 30
)

type usersGetResponse struct {
	Response []struct {
		ID int64 `json:"id"`
	} `json:"response"`
	Error *APIError `json:"error"`
}

type videoGetResponse struct {
	Response *struct {
		Count int         `json:"count"`
		Items []videoItem `json:"items"`
	} `json:"response"`
	Error *APIError `json:"error"`
}

type videoItem struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Player string `json:"player"`
}
