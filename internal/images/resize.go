package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

// decodeSource reads and decodes a source raster image.
func decodeSource(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// resize produces the pixel data for one variant. Width-only sizes preserve
// aspect ratio; WxH sizes use a center-crop cover strategy.
func resize(src image.Image, size Size) image.Image {
	if size.Cover() {
		return resizeCover(src, size.Width, size.Height)
	}
	return resizeWidth(src, size.Width)
}

func resizeWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	height := h * width / w
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// resizeCover scales the largest centered source region matching the target
// aspect ratio down (or up) to exactly width x height.
func resizeCover(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	cropW, cropH := w, h
	// Compare aspect ratios without floats: w/h vs width/height.
	if w*height > width*h {
		cropW = h * width / height
	} else {
		cropH = w * height / width
	}
	x0 := bounds.Min.X + (w-cropW)/2
	y0 := bounds.Min.Y + (h-cropH)/2
	crop := image.Rect(x0, y0, x0+cropW, y0+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

// encodeJPEG encodes a variant at the given quality.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
