package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"rxlens/internal/domain"
)

const jpegQuality = 90

// NormalizeJPEG decodes an uploaded jpeg/png image and re-encodes it as
// JPEG. Uploaded images are always stored as image/jpeg.
func NormalizeJPEG(data []byte, contentType string) ([]byte, string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png":
	default:
		return nil, "", domain.ErrUnsupportedFileType
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// PlaceholderSVG renders a placeholder for prescriptions without stored
// image bytes. The filename is escaped to prevent SVG injection.
func PlaceholderSVG(fileName string) []byte {
	escaped := escapeXML(fileName)
	svg := fmt.Sprintf(`<svg width="400" height="600" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%%" height="100%%" fill="#f8f9fa" stroke="#dee2e6" stroke-width="2"/>
  <text x="50%%" y="40%%" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" fill="#6c757d">Prescription Image</text>
  <text x="50%%" y="50%%" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="#6c757d">%s</text>
  <text x="50%%" y="60%%" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" fill="#6c757d">Image not available</text>
</svg>`, escaped)
	return []byte(svg)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
