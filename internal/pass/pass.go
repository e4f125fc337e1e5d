package pass

import (
	"fmt"

	"mixlab/internal/models"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the pixel width of the rendered pass image.
const DefaultSize = 256

// Payload builds the string a pass encodes for one reservation. The scanner
// strips the prefix back off at check-in.
func Payload(sequenceID string) string {
	return models.QRPayloadPrefix + sequenceID
}

// RenderPNG encodes the reservation's check-in payload as a QR PNG. Size is
// the image width in pixels; zero or negative falls back to DefaultSize.
func RenderPNG(r *models.Reservation, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(Payload(r.SequenceID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render pass for %s: %w", r.SequenceID, err)
	}
	return png, nil
}
