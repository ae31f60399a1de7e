package crawl

import "fmt"

// String summarizes the result for display.
func (r *Result) String() string {
	return fmt.Sprintf("saved %d, missing %d, failed %d, duplicates %d, unchanged %d",
		r.Saved, r.Missing, r.Failed, r.Duplicates, r.Unchanged)
}

// TruncateURL shortens a URL for display, keeping the end which names the file.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats a content size using binary units.
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n) / 1024
	for _, unit := range []string{"KB", "MB"} {
		if size < 1024 || unit == "MB" {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return ""
}
