// Package imagex normalizes uploaded photos before storage and analysis.
package imagex

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// Normalization targets. Uploads are bounded to maxDim on the longest
// side (never enlarged) and re-encoded as JPEG so the analysis
// collaborator always receives the same media type.
const (
	maxDim      = 800
	jpegQuality = 85
)

// ErrNotAnImage indicates the payload could not be decoded as an image.
var ErrNotAnImage = errors.New("payload is not a decodable image")

// Normalize decodes an uploaded image, scales it to fit within
// maxDim x maxDim, and re-encodes it as JPEG.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	// Fit never enlarges; small images pass through at original size.
	fitted := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}
