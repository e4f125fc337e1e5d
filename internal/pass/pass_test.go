package pass

import (
	"bytes"
	"testing"

	"mixlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestPayload(t *testing.T) {
	assert.Equal(t, "BookingID:ABC123XYZ-1", Payload("ABC123XYZ-1"))
}

func TestRenderPNG(t *testing.T) {
	r := &models.Reservation{SequenceID: "ABC123XYZ-1"}

	png, err := RenderPNG(r, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngHeader))

	larger, err := RenderPNG(r, 512)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(larger, pngHeader))
	assert.Greater(t, len(larger), len(png))
}
