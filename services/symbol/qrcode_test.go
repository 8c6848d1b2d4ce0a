package symbolsvc

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCode_Render(t *testing.T) {
	q := NewQRCode()

	b, err := q.Render(context.Background(), "https://notes.example.org/feedback/ABC123", 128)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	_, err = q.Render(context.Background(), strings.Repeat("x", 4000), 128)
	assert.Error(t, err, "payload too long")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.Render(ctx, "https://notes.example.org/feedback/ABC123", 128)
	assert.Equal(t, context.Canceled, err)
}
