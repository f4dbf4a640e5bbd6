// Package report collects run statistics and prints the final summary.
package report

import (
	"fmt"
	"strings"
	"time"
)

// ErrorEntry records one error that occurred during the run.
type ErrorEntry struct {
	Timestamp time.Time
	Page      int    // listing page being processed, 0 if not page-bound
	Href      string // detail href being processed, empty if none
	Message   string
}

// Stats holds all statistics collected during a scraper run.
type Stats struct {
	StartTime          time.Time
	EndTime            time.Time
	PagesProcessed     int
	RowsMatched        int
	DownloadsCompleted int
	DownloadsFailed    int
	BytesDownloaded    int64
	Errors             []ErrorEntry
}

// New returns a Stats with StartTime set to now.
func New() *Stats {
	return &Stats{
		StartTime: time.Now(),
		Errors:    make([]ErrorEntry, 0),
	}
}

// AddError records an error against the page and href being processed.
func (s *Stats) AddError(page int, href, message string) {
	s.Errors = append(s.Errors, ErrorEntry{
		Timestamp: time.Now(),
		Page:      page,
		Href:      href,
		Message:   message,
	})
}

// AddDownload records a completed download of size bytes.
func (s *Stats) AddDownload(size int64) {
	s.DownloadsCompleted++
	s.BytesDownloaded += size
}

// Finish marks the end time of the run.
func (s *Stats) Finish() {
	s.EndTime = time.Now()
}

// Duration returns the total execution duration.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Summary returns a brief one-line summary of the stats.
func (s *Stats) Summary() string {
	return fmt.Sprintf(
		"%d pages processed, %d rows matched, %d downloads (%d failed, %s), %d errors in %s",
		s.PagesProcessed,
		s.RowsMatched,
		s.DownloadsCompleted,
		s.DownloadsFailed,
		formatBytes(s.BytesDownloaded),
		len(s.Errors),
		formatDuration(s.Duration()),
	)
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const boxWidth = 52

// Print outputs the final report to the console with colors.
func (s *Stats) Print() {
	fmt.Println()
	printRule()
	fmt.Printf("%s%s%s\n", colorBold, center("FINAL REPORT", boxWidth), colorReset)
	printRule()

	printRow("Duration", formatDuration(s.Duration()), "")
	printRow("Pages processed", fmt.Sprintf("%d", s.PagesProcessed), "")
	printRow("Rows matched", fmt.Sprintf("%d", s.RowsMatched), "")

	downloadValue := fmt.Sprintf("%d completed", s.DownloadsCompleted)
	downloadColor := colorGreen
	if s.DownloadsFailed > 0 {
		downloadValue += fmt.Sprintf(", %d failed", s.DownloadsFailed)
		downloadColor = colorYellow
	}
	printRow("Downloads", downloadValue, downloadColor)

	if s.BytesDownloaded > 0 {
		printRow("Total size", formatBytes(s.BytesDownloaded), "")
	}

	printRule()
	if len(s.Errors) > 0 {
		printRow(fmt.Sprintf("Errors (%d):", len(s.Errors)), "", colorRed)
		maxErrors := 5
		for i, e := range s.Errors {
			if i >= maxErrors {
				printErrorLine(fmt.Sprintf("... and %d more errors", len(s.Errors)-maxErrors))
				break
			}
			text := fmt.Sprintf("- %s", e.Message)
			if e.Page > 0 {
				text += fmt.Sprintf(" (page %d)", e.Page)
			}
			printErrorLine(text)
		}
	} else {
		printRow("No errors occurred", "", colorGreen)
	}
	printRule()
	fmt.Println()
}

func printRule() {
	fmt.Printf("%s%s%s\n", colorCyan, strings.Repeat("=", boxWidth), colorReset)
}

func printRow(label, value, valueColor string) {
	const labelWidth = 22
	padding := labelWidth - len(label)
	if padding < 0 {
		padding = 0
	}
	if valueColor != "" {
		value = valueColor + value + colorReset
	}
	fmt.Printf("  %s%s   %s\n", label, strings.Repeat(" ", padding), value)
}

func printErrorLine(text string) {
	fmt.Printf("      %s%s%s\n", colorRed, text, colorReset)
}

func center(text string, width int) string {
	padding := (width - len(text)) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + text
}

// formatBytes formats bytes into human-readable form.
func formatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// formatDuration formats a duration as h/m/s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
