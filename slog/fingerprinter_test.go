package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/mock"
	fasubslog "github.com/fwojciec/fasub/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFingerprinter_Fingerprint(t *testing.T) {
	t.Parallel()

	debugLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t.Run("logs perceptual hash", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		want := &fasub.Fingerprint{PerceptualHash: fasub.PerceptualHashFromInt64(1)}
		inner := &mock.Fingerprinter{
			FingerprintFn: func(data []byte) (*fasub.Fingerprint, error) {
				return want, nil
			},
		}

		fp, err := fasubslog.NewLoggingFingerprinter(inner, debugLogger(&buf)).Fingerprint([]byte("abc"))

		require.NoError(t, err)
		assert.Same(t, want, fp)
		output := buf.String()
		assert.Contains(t, output, "msg=fingerprint")
		assert.Contains(t, output, "bytes=3")
		assert.Contains(t, output, "phash="+want.PerceptualHash.Hex())
	})

	t.Run("logs decode error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fingerprinter{
			FingerprintFn: func(data []byte) (*fasub.Fingerprint, error) {
				return nil, fasub.Errorf(false, "unable to decode image")
			},
		}

		_, err := fasubslog.NewLoggingFingerprinter(inner, debugLogger(&buf)).Fingerprint(nil)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "unable to decode image")
		assert.NotContains(t, buf.String(), "phash=")
	})

	t.Run("silent at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fingerprinter{
			FingerprintFn: func(data []byte) (*fasub.Fingerprint, error) {
				return &fasub.Fingerprint{}, nil
			},
		}
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		_, err := fasubslog.NewLoggingFingerprinter(inner, logger).Fingerprint([]byte("x"))

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
