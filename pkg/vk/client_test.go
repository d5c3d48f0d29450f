package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkscan/pkg/config"
	errs "vkscan/pkg/errors"
	"vkscan/pkg/logger"
)

// recordingServer serves scripted replies and records every request
type recordingServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*http.Request
}

func newRecordingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, n int)) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r)
		n := len(rs.requests)
		rs.mu.Unlock()
		handler(w, r, n)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) count() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requests)
}

func (rs *recordingServer) request(i int) *http.Request {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.requests[i]
}

// sleepRecorder replaces the retry wait
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func testVKConfig(baseURL string) config.VKConfig {
	cfg := config.DefaultConfig().VK
	cfg.APIBaseURL = baseURL + "/method"
	cfg.WebBaseURL = baseURL
	cfg.AccessToken = "test-token"
	cfg.RequestTimeout = 5 * time.Second
	return cfg
}

func newTestClient(t *testing.T, baseURL string) (*Client, *sleepRecorder, *logger.TestLogger) {
	t.Helper()
	log := logger.NewTestLogger()
	c := NewClient(testVKConfig(baseURL), nil, log)
	s := &sleepRecorder{}
	c.SetSleep(s.sleep)
	return c, s, log
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientDefaults(t *testing.T) {
	cfg := config.DefaultConfig().VK
	cfg.PageSize = 500
	c := NewClient(cfg, nil, logger.NewNopLogger())

	assert.Equal(t, MaxPageSize, c.pageSize)
	assert.NotNil(t, c.limiter)
	assert.Equal(t, "https://vk.com", c.WebBaseURL())
	assert.Contains(t, c.headers["User-Agent"], "Mozilla")
}

func TestEndpointURLs(t *testing.T) {
	c := NewClient(testVKConfig("https://api.example"), nil, logger.NewNopLogger())

	assert.Equal(t,
		"https://api.example/method/users.get?access_token=test-token&user_ids=alice&v=5.92",
		c.usersGetURL("alice"))
	assert.Equal(t,
		"https://api.example/method/video.get?access_token=test-token&count=200&offset=400&owner_id=42&v=5.92",
		c.videoGetURL(42, 400))
	assert.Equal(t, "https://api.example/video/@id42", c.videoPageURL(42))
}

func TestSetAccessToken(t *testing.T) {
	cfg := testVKConfig("https://api.example")
	cfg.AccessToken = ""
	c := NewClient(cfg, nil, logger.NewNopLogger())
	c.SetAccessToken("stored-token")

	assert.Equal(t,
		"https://api.example/method/users.get?access_token=stored-token&user_ids=alice&v=5.92",
		c.usersGetURL("alice"))
}

func TestCheckResponseStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errs.ErrorType
	}{
		{401, errs.ErrorTypeAuth},
		{403, errs.ErrorTypeAuth},
		{404, errs.ErrorTypeNotFound},
		{429, errs.ErrorTypeRateLimit},
		{502, errs.ErrorTypeServerError},
		{418, errs.ErrorTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			err := checkResponseStatus(&http.Response{StatusCode: tt.status})
			assert.Equal(t, tt.want, errs.TypeOf(err))
		})
	}
	assert.NoError(t, checkResponseStatus(&http.Response{StatusCode: 204}))
}

// countingLimiter counts Wait calls
type countingLimiter struct {
	waits int
}

func (l *countingLimiter) Allow() bool { return true }
func (l *countingLimiter) Reset()      {}
func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits++
	return ctx.Err()
}

func TestRequestsWaitOnLimiter(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request, n int) {
		writeJSON(w, map[string]interface{}{"response": []map[string]int64{{"id": 7}}})
	})
	limiter := &countingLimiter{}
	c := NewClient(testVKConfig(srv.URL), limiter, logger.NewNopLogger())

	_, err := c.ResolveUserID(context.Background(), "durov")
	require.NoError(t, err)
	assert.Equal(t, 1, limiter.waits)
}

func TestNetworkErrorRedactsToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, _, _ := newTestClient(t, base)
	_, err := c.FetchVideos(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
	assert.NotContains(t, err.Error(), "test-token")
}

func TestParsingErrorLogsPreview(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request, n int) {
		fmt.Fprint(w, "<html>maintenance</html>")
	})
	c, _, log := newTestClient(t, srv.URL)

	_, err := c.FetchVideos(context.Background(), 1)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))

	msgs := log.GetMessagesByLevel("ERROR")
	require.NotEmpty(t, msgs)
	assert.Equal(t, "<html>maintenance</html>", msgs[0].Fields["body_preview"])
	assert.NotContains(t, msgs[0].Fields["url"], "test-token")
}
