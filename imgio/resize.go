package imgio

import (
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// Fit scales img down to fit within maxWidth x maxHeight, keeping its aspect
// ratio. A zero limit leaves that dimension unconstrained. Images that
// already fit are returned unchanged.
func Fit(logger *slog.Logger, img image.Image, maxWidth, maxHeight int) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	if srcWidth == 0 || srcHeight == 0 {
		return img
	}

	ratio := 1.0
	if maxWidth > 0 && srcWidth > float64(maxWidth) {
		ratio = float64(maxWidth) / srcWidth
	}
	if maxHeight > 0 && srcHeight > float64(maxHeight) {
		ratio = min(ratio, float64(maxHeight)/srcHeight)
	}
	if ratio == 1 {
		return img
	}

	destWidth := max(int(math.Round(srcWidth*ratio)), 1)
	destHeight := max(int(math.Round(srcHeight*ratio)), 1)
	if maxWidth > 0 {
		destWidth = min(destWidth, maxWidth)
	}
	if maxHeight > 0 {
		destHeight = min(destHeight, maxHeight)
	}

	logger.Info("resizing", "width", destWidth, "height", destHeight)
	dest := image.NewNRGBA(image.Rect(0, 0, destWidth, destHeight))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)
	return dest
}
