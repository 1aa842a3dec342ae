package imaging

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

var ErrEmptyImage = errors.New("image data is empty")

// FlagDecoder decodes downloaded flag bytes with OpenCV and scales them into the flag box.
type FlagDecoder struct {
	maxWidth  int
	maxHeight int
}

// NewFlagDecoder creates a decoder bounded by maxWidth x maxHeight.
func NewFlagDecoder(maxWidth, maxHeight int) *FlagDecoder {
	return &FlagDecoder{maxWidth: maxWidth, maxHeight: maxHeight}
}

// Decode converts encoded image bytes into an image no larger than the flag box,
// preserving aspect ratio. Images that already fit are returned at native size.
func (d *FlagDecoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	mat, err := decodeMat(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	width, height := FitWithin(mat.Cols(), mat.Rows(), d.maxWidth, d.maxHeight)
	if width == mat.Cols() && height == mat.Rows() {
		return toImage(mat)
	}

	resized := gocv.NewMat()
	defer resized.Close()

	gocv.Resize(mat, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationArea)
	if resized.Empty() {
		return nil, fmt.Errorf("resize to %dx%d failed", width, height)
	}

	return toImage(resized)
}

// decodeMat keeps the alpha channel when the source is 8-bit, otherwise falls back to 8-bit BGR.
func decodeMat(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return mat, fmt.Errorf("decode image: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return mat, fmt.Errorf("decode image: unsupported or corrupt data (%d bytes)", len(data))
	}

	if isDisplayable(mat.Type()) {
		return mat, nil
	}
	mat.Close()

	mat, err = gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return mat, fmt.Errorf("decode image as color: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return mat, fmt.Errorf("decode image as color: unsupported data")
	}
	return mat, nil
}

func isDisplayable(matType gocv.MatType) bool {
	switch matType {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return true
	default:
		return false
	}
}

func toImage(mat gocv.Mat) (image.Image, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert Mat to image: %w", err)
	}
	return img, nil
}
