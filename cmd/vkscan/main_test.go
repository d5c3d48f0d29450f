package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vkscan/pkg/checkpoint"
	"vkscan/pkg/ui"
)

const videoPage = `<div id="video_subtab_pane_all">
  <a class="VideoCard__title" data-id="videos12345_77" href="/video77">Trailer</a>
</div>`

// newVKServer serves users.get, video.get and the public video page
func newVKServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/method/users.get", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":[{"id":42,"first_name":"Alice"}]}`)
	})
	mux.HandleFunc("/method/video.get", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("owner_id") == "42" {
			fmt.Fprint(w, `{"response":{"count":2,"items":[
				{"id":1,"title":"Cat","player":"https://vk.com/video_ext.php?oid=42&id=1"},
				{"id":2,"title":"Dog"}
			]}}`)
			return
		}
		fmt.Fprint(w, `{"response":{"count":0,"items":[]}}`)
	})
	mux.HandleFunc("/video/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, videoPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig points vkscan at the test server and a temporary database
func writeConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "vkscan.yaml")
	cfg := fmt.Sprintf(`vk:
  access_token: test-token-0123456789abcdef0123456789
  api_version: "5.92"
  api_base_url: %s/method
  web_base_url: %s
  page_size: 200
rate_limit:
  requests_per_second: 0
  burst: 1
database:
  driver: sqlite
  dsn: %s
  auto_migrate: true
logging:
  level: error
`, baseURL, baseURL, filepath.Join(dir, "vkscan.db"))
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0600))
	return path
}

// resetFlags clears flag values left over from an earlier run
func resetFlags() {
	configFile, logLevel, dbDriver, dbDSN, accessToken, accountName = "", "", "", "", "", ""
	noColor, quiet, showLogo = false, false, false
	forceRestart, noCheckpoint, useTUI, notify = false, false, false, false
	storedOnly = false
}

// run executes the root command and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		ui.SetOutput(nil)
		ui.SetQuietMode(false)
		ui.SetColors(true)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandWorkflow(t *testing.T) {
	t.Setenv("VKSCAN_ACCESS_TOKEN", "")
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, newVKServer(t).URL)

	usersFile := filepath.Join(dir, "users.txt")
	require.NoError(t, os.WriteFile(usersFile, []byte("alice\n\n  12345  \n"), 0600))

	out, err := run(t, "--config", cfgPath, "--no-color", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is at version 1")

	out, err = run(t, "--config", cfgPath, "--no-color", "add-users", usersFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored 2 users")

	out, err = run(t, "--config", cfgPath, "--no-color", "scan", "--no-checkpoint")
	require.NoError(t, err)
	assert.Contains(t, out, "alice 2 videos (api)")
	assert.Contains(t, out, "12345 1 videos (scrape)")
	assert.Contains(t, out, "Videos stored: 3")
	assert.Contains(t, out, "Elapsed time:")

	out, err = run(t, "--config", cfgPath, "--no-color", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "uservideo")
	assert.Contains(t, out, "3")

	// A second scan stores nothing new
	_, err = run(t, "--config", cfgPath, "--no-color", "scan", "--no-checkpoint")
	require.NoError(t, err)
	out, err = run(t, "--config", cfgPath, "--no-color", "videos", "12345", "--stored")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored videos: 1")
	assert.Contains(t, out, "Trailer")

	out, err = run(t, "--config", cfgPath, "--no-color", "remove-user", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed user 42")

	_, err = run(t, "--config", cfgPath, "--no-color", "remove-user", "42")
	assert.Error(t, err)
}

func TestScanContinuesUnfinishedScan(t *testing.T) {
	t.Setenv("VKSCAN_ACCESS_TOKEN", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, newVKServer(t).URL)

	usersFile := filepath.Join(dir, "users.txt")
	require.NoError(t, os.WriteFile(usersFile, []byte("alice\n12345\n"), 0600))
	_, err := run(t, "--config", cfgPath, "add-users", usersFile)
	require.NoError(t, err)

	// An earlier scan stored alice and then stopped
	mgr, err := checkpoint.NewManager(checkpoint.NameFor("sqlite", filepath.Join(dir, "vkscan.db")))
	require.NoError(t, err)
	cp, err := mgr.Create(mgr.Name(), 2)
	require.NoError(t, err)
	require.NoError(t, mgr.RecordUser(cp, 42, 2))

	for i := 0; i < 2; i++ {
		out, err := run(t, "--config", cfgPath, "--no-color", "scan")
		require.NoError(t, err, "run %d", i)
		if i == 0 {
			assert.Contains(t, out, "A previous scan did not finish, continuing it")
			assert.Contains(t, out, "Users already done: 1 of 2")
			assert.NotContains(t, out, "alice 2 videos")
		} else {
			assert.NotContains(t, out, "A previous scan did not finish")
			assert.Contains(t, out, "alice 2 videos (api)")
		}
		assert.Contains(t, out, "12345 1 videos (scrape)")
	}
	assert.False(t, mgr.Exists())
}

func TestVideosCommandDoesNotPersist(t *testing.T) {
	t.Setenv("VKSCAN_ACCESS_TOKEN", "")
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, newVKServer(t).URL)

	out, err := run(t, "--config", cfgPath, "--no-color", "videos", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "User id: 42")
	assert.Contains(t, out, "Source: api")
	assert.Contains(t, out, "Cat")

	out, err = run(t, "--config", cfgPath, "--no-color", "stats")
	require.NoError(t, err)
	assert.NotContains(t, out, "2")
}

func TestRemoveUserRejectsBadID(t *testing.T) {
	_, err := run(t, "remove-user", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid user id "alice"`)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "***", maskSecret("short"))
	assert.Equal(t, "abcd...wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
}
