package fasub

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math/bits"
)

// PerceptualHash is an 8-byte similarity digest of an image's structure.
type PerceptualHash [8]byte

// ParsePerceptualHash decodes the base64 form returned by Base64.
func ParsePerceptualHash(s string) (PerceptualHash, error) {
	var h PerceptualHash
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return h, Errorf(false, "invalid perceptual hash %q: %v", s, err)
	}
	if len(b) != len(h) {
		return h, Errorf(false, "invalid perceptual hash length %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// PerceptualHashFromInt64 reverses Int64.
func PerceptualHashFromInt64(n int64) PerceptualHash {
	var h PerceptualHash
	binary.BigEndian.PutUint64(h[:], uint64(n))
	return h
}

// Int64 reinterprets the hash bytes as a big-endian signed integer.
func (h PerceptualHash) Int64() int64 {
	return int64(binary.BigEndian.Uint64(h[:]))
}

// Base64 returns the standard base64 encoding of the hash bytes.
func (h PerceptualHash) Base64() string {
	return base64.StdEncoding.EncodeToString(h[:])
}

// Hex returns the hex encoding of the hash bytes.
func (h PerceptualHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Distance returns the number of differing bits between h and other.
func (h PerceptualHash) Distance(other PerceptualHash) int {
	return bits.OnesCount64(binary.BigEndian.Uint64(h[:]) ^ binary.BigEndian.Uint64(other[:]))
}

// Fingerprint holds the exact and perceptual digests of a media payload.
type Fingerprint struct {
	PerceptualHash PerceptualHash
	ContentDigest  [32]byte
	ContentSize    int

	// RawBytes holds the payload when the fingerprinter was asked to keep it.
	RawBytes []byte
}

// PerceptualHashNumeric returns the perceptual hash as a big-endian int64.
func (f *Fingerprint) PerceptualHashNumeric() int64 {
	return f.PerceptualHash.Int64()
}

type fingerprintJSON struct {
	PerceptualHash        string `json:"perceptualHash"`
	PerceptualHashNumeric int64  `json:"perceptualHashNumeric"`
	ContentDigest         string `json:"contentDigest"`
	ContentSize           int    `json:"contentSize"`
}

// MarshalJSON encodes the fingerprint with the hash in base64 and numeric
// form and the digest in hex. RawBytes is never encoded.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(fingerprintJSON{
		PerceptualHash:        f.PerceptualHash.Base64(),
		PerceptualHashNumeric: f.PerceptualHash.Int64(),
		ContentDigest:         hex.EncodeToString(f.ContentDigest[:]),
		ContentSize:           f.ContentSize,
	})
}

// Fingerprinter computes fingerprints of raw media payloads.
type Fingerprinter interface {
	// Fingerprint hashes data. Returns a non-retryable error when data
	// cannot be decoded as a raster image.
	Fingerprint(data []byte) (*Fingerprint, error)
}
