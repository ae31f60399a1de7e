package sqlite

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/fasub"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t.UTC(), nil
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
// SQLite rejects OFFSET without LIMIT, so an offset alone uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit <= 0 && offset > 0 {
		limit = -1
	}
	if limit != 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// hashRecord computes the xxHash of the stored fields of sub that come from
// the page, as a big-endian hex string. The fingerprint is not included.
func hashRecord(sub *fasub.Submission) string {
	d := xxhash.New()
	for _, field := range []string{
		sub.Title,
		sub.Artist,
		string(sub.Content.Kind),
		sub.Content.URL,
		sub.Rating.Code(),
		sub.PostedAt.UTC().Format(time.RFC3339),
		sub.Description,
	} {
		_, _ = d.WriteString(field)
		_, _ = d.Write([]byte{0})
	}
	for _, tag := range sub.Tags {
		_, _ = d.WriteString(tag)
		_, _ = d.Write([]byte{0x1f})
	}
	return hex.EncodeToString(d.Sum(nil))
}
