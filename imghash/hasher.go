// Package imghash implements fasub.Fingerprinter: a SHA-256 content digest
// paired with a gradient perceptual hash computed over DCT coefficients.
package imghash

import (
	"bytes"
	"crypto/sha256"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fwojciec/fasub"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Ensure Hasher implements fasub.Fingerprinter at compile time.
var _ fasub.Fingerprinter = (*Hasher)(nil)

// DefaultMaxBytes bounds the payload size accepted for fingerprinting.
const DefaultMaxBytes = 64 << 20

// Hasher fingerprints raster image payloads.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	keepRaw  bool
	maxBytes int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithRawBytes keeps a copy of the payload in the returned fingerprint.
func WithRawBytes(keep bool) Option {
	return func(h *Hasher) {
		h.keepRaw = keep
	}
}

// WithMaxBytes sets the largest payload the hasher will decode.
// Defaults to DefaultMaxBytes.
func WithMaxBytes(n int) Option {
	return func(h *Hasher) {
		h.maxBytes = n
	}
}

// NewHasher creates a new Hasher.
func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fingerprint digests data and computes its perceptual hash.
// Returns a non-retryable error if data is not a decodable image.
func (h *Hasher) Fingerprint(data []byte) (*fasub.Fingerprint, error) {
	if len(data) == 0 {
		return nil, fasub.DecodeError(image.ErrFormat)
	}
	if h.maxBytes > 0 && len(data) > h.maxBytes {
		return nil, fasub.Errorf(false, "image exceeds max size (%d > %d)", len(data), h.maxBytes)
	}

	fp := &fasub.Fingerprint{
		ContentDigest: sha256.Sum256(data),
		ContentSize:   len(data),
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fasub.DecodeError(err)
	}
	fp.PerceptualHash = PerceptualHash(img)

	if h.keepRaw {
		fp.RawBytes = append([]byte(nil), data...)
	}
	return fp, nil
}
