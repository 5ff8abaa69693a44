package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxlens/internal/domain"
)

func encodedImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeJPEGFromPNG(t *testing.T) {
	data := encodedImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})

	out, contentType, err := NormalizeJPEG(data, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 8, decoded.Bounds().Dx())
}

func TestNormalizeJPEGFromJPEG(t *testing.T) {
	data := encodedImage(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})

	out, contentType, err := NormalizeJPEG(data, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.NotEmpty(t, out)
}

func TestNormalizeJPEGUnsupportedType(t *testing.T) {
	_, _, err := NormalizeJPEG([]byte("gif bytes"), "image/gif")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestNormalizeJPEGCorruptData(t *testing.T) {
	_, _, err := NormalizeJPEG([]byte("not an image"), "image/png")
	assert.Error(t, err)
}

func TestPlaceholderSVGEscapesFileName(t *testing.T) {
	svg := string(PlaceholderSVG(`rx<script>"a"&'b'.png`))

	assert.Contains(t, svg, "rx&lt;script&gt;&quot;a&quot;&amp;&#39;b&#39;.png")
	assert.NotContains(t, svg, "<script>")
	assert.Contains(t, svg, "Image not available")
}
