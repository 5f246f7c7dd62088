package render

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
)

// Letterhead images are scaled down to fit this box before being embedded.
const letterheadMaxPx = 144

// LoadLetterhead reads the image at path, fits it into a small square and
// returns it as a PNG data URL ready for embedding.
func LoadLetterhead(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open letterhead: %w", err)
	}

	thumb := imaging.Fit(img, letterheadMaxPx, letterheadMaxPx, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode letterhead: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
