package imghash_test

import (
	"bytes"
	"crypto/sha256"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"

	"github.com/fwojciec/fasub"
	"github.com/fwojciec/fasub/imghash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func rampImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / (w - 1))})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHasher_Fingerprint(t *testing.T) {
	t.Parallel()

	t.Run("computes digest, size and perceptual hash", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, rampImage(64, 48))

		fp, err := imghash.NewHasher().Fingerprint(data)
		require.NoError(t, err)

		assert.Equal(t, sha256.Sum256(data), fp.ContentDigest)
		assert.Equal(t, len(data), fp.ContentSize)
		assert.Equal(t, imghash.PerceptualHash(rampImage(64, 48)), fp.PerceptualHash)
		assert.Equal(t, fp.PerceptualHash.Int64(), fp.PerceptualHashNumeric())
		assert.Nil(t, fp.RawBytes)
	})

	t.Run("is stable for identical input", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, rampImage(40, 40))
		h := imghash.NewHasher()

		a, err := h.Fingerprint(data)
		require.NoError(t, err)
		b, err := h.Fingerprint(data)
		require.NoError(t, err)

		assert.Equal(t, a.ContentDigest, b.ContentDigest)
		assert.Equal(t, a.PerceptualHash, b.PerceptualHash)
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, rampImage(32, 32))
		h := imghash.NewHasher()
		want, err := h.Fingerprint(data)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]*fasub.Fingerprint, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = h.Fingerprint(data)
			}(i)
		}
		wg.Wait()

		for _, got := range results {
			require.NotNil(t, got)
			assert.Equal(t, want.PerceptualHash, got.PerceptualHash)
		}
	})

	t.Run("decodes jpeg", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, rampImage(32, 32), nil))

		fp, err := imghash.NewHasher().Fingerprint(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, buf.Len(), fp.ContentSize)
	})

	t.Run("keeps raw bytes when asked", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, uniformImage(8, 8, 10))

		fp, err := imghash.NewHasher(imghash.WithRawBytes(true)).Fingerprint(data)
		require.NoError(t, err)
		assert.Equal(t, data, fp.RawBytes)
	})

	t.Run("rejects undecodable payloads", func(t *testing.T) {
		t.Parallel()

		_, err := imghash.NewHasher().Fingerprint([]byte("<html>not an image</html>"))
		require.Error(t, err)
		assert.False(t, fasub.IsRetryable(err))
		assert.Contains(t, fasub.ErrorMessage(err), "unable to decode image")
	})

	t.Run("rejects empty payloads", func(t *testing.T) {
		t.Parallel()

		_, err := imghash.NewHasher().Fingerprint(nil)
		require.Error(t, err)
		assert.False(t, fasub.IsRetryable(err))
	})

	t.Run("rejects oversized payloads", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, rampImage(32, 32))

		_, err := imghash.NewHasher(imghash.WithMaxBytes(10)).Fingerprint(data)
		require.Error(t, err)
		assert.False(t, fasub.IsRetryable(err))
	})
}

func TestPerceptualHash(t *testing.T) {
	t.Parallel()

	t.Run("uniform image has no gradient", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, fasub.PerceptualHash{}, imghash.PerceptualHash(uniformImage(50, 30, 128)))
	})

	t.Run("ramp differs from uniform", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, fasub.PerceptualHash{}, imghash.PerceptualHash(rampImage(50, 30)))
	})
}
