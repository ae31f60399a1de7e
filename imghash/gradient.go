package imghash

import (
	"image"

	"github.com/corona10/goimagehash/transforms"
	"github.com/fwojciec/fasub"
	"golang.org/x/image/draw"
)

// Hash grid dimensions. The image is reduced to twice the grid height in
// each direction before the DCT so that the kept low-frequency block has
// one spare column for the gradient comparison. The DCT needs power-of-two
// sides, so hashes differ from 18x16 implementations.
const (
	gridWidth  = 8
	gridHeight = 8
	dctSize    = gridHeight * 2
)

// PerceptualHash computes a 64-bit gradient hash of img over its low
// frequency DCT coefficients. Bits are packed row by row, most significant
// bit first; a bit is set when a coefficient is smaller than its right
// neighbour.
func PerceptualHash(img image.Image) fasub.PerceptualHash {
	small := image.NewRGBA(image.Rect(0, 0, dctSize, dctSize))
	draw.CatmullRom.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	coeffs := transforms.DCT2D(transforms.Rgb2Gray(small), dctSize, dctSize)

	var h fasub.PerceptualHash
	bit := 0
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth; x++ {
			if coeffs[y][x] < coeffs[y][x+1] {
				h[bit/8] |= 0x80 >> (bit % 8)
			}
			bit++
		}
	}
	return h
}
