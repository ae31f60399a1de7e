package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/fasub"
)

// Ensure LoggingFingerprinter implements fasub.Fingerprinter.
var _ fasub.Fingerprinter = (*LoggingFingerprinter)(nil)

// LoggingFingerprinter wraps a Fingerprinter with debug logging.
type LoggingFingerprinter struct {
	next   fasub.Fingerprinter
	logger *slog.Logger
}

// NewLoggingFingerprinter creates a new LoggingFingerprinter.
func NewLoggingFingerprinter(next fasub.Fingerprinter, logger *slog.Logger) *LoggingFingerprinter {
	return &LoggingFingerprinter{next: next, logger: logger}
}

// Fingerprint delegates to the wrapped fingerprinter and logs the result.
func (f *LoggingFingerprinter) Fingerprint(data []byte) (fp *fasub.Fingerprint, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(data),
			"duration", time.Since(begin),
		}
		if fp != nil {
			attrs = append(attrs, "phash", fp.PerceptualHash.Hex())
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		f.logger.Debug("fingerprint", attrs...)
	}(time.Now())
	return f.next.Fingerprint(data)
}
