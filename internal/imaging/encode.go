package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// EncodedImage is a rendered image returned to clients as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as PNG and wraps it in an EncodedImage.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
