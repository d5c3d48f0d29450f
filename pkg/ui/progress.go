package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"vkscan/pkg/models"
	"vkscan/pkg/scraper"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// ScanProgress prints one line per scanned user and a closing summary.
// It implements scraper.Reporter.
type ScanProgress struct {
	mu        sync.Mutex
	total     int
	done      int
	videos    int
	startTime time.Time
	notifier  *Notifier
}

// NewScanProgress creates a console reporter. notifier may be nil.
func NewScanProgress(notifier *Notifier) *ScanProgress {
	return &ScanProgress{
		startTime: time.Now(),
		notifier:  notifier,
	}
}

// ScanStarted implements scraper.Reporter
func (p *ScanProgress) ScanStarted(totalUsers int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = totalUsers
	p.startTime = time.Now()
	printf("%s %s\n", Magenta("[SCANNING]"), Yellow(fmt.Sprintf("%d users", totalUsers)))
}

// UserStarted implements scraper.Reporter
func (p *ScanProgress) UserStarted(user models.User) {}

// UserFinished implements scraper.Reporter
func (p *ScanProgress) UserFinished(scan scraper.UserScan) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.videos += scan.Videos
	printf("%s %s %s %s\n",
		p.bar(),
		Cyan(scan.Nickname),
		Yellow(fmt.Sprintf("%d videos", scan.Videos)),
		Dim("("+string(scan.Source)+")"))
}

// ScanFinished implements scraper.Reporter
func (p *ScanProgress) ScanFinished(summary *scraper.ScanSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if summary.Skipped > 0 {
		PrintInfo("Skipped from checkpoint", fmt.Sprint(summary.Skipped))
	}
	PrintInfo("Users scanned", fmt.Sprint(len(summary.Users)))
	PrintInfo("Videos stored", fmt.Sprint(summary.VideosStored))
	PrintInfo("Elapsed time", FormatElapsed(summary.Duration))

	if p.notifier != nil {
		p.notifier.SendSuccess("vkscan", fmt.Sprintf("Scan finished: %d users, %d videos", len(summary.Users), summary.VideosStored))
	}
}

// bar renders progress over users
func (p *ScanProgress) bar() string {
	progress := 0.0
	if p.total > 0 {
		progress = float64(p.done) / float64(p.total)
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * barWidth)

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, barWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, p.done, p.total)
}

// FormatElapsed formats a duration in seconds with millisecond precision
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
