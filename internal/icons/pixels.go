package icons

import (
	"image"

	"github.com/disintegration/imaging"
)

// FromPremultipliedBGRA converts rows of premultiplied B8G8R8A8 pixels, as
// downloaded from a texture on little-endian hosts, to an RGBA image.
func FromPremultipliedBGRA(pix []byte, width, height, stride int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		src := pix[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := range width {
			s := src[x*4 : x*4+4]
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
	}
	return img
}

// Scale fits img into a size×size square keeping its aspect ratio. Images
// that already fit are returned unchanged.
func Scale(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
