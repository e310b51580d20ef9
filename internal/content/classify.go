package content

import (
	"strings"
	"unicode/utf8"
)

// Supported attachment MIME types.
var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var supportedTextTypes = map[string]bool{
	"text/plain":    true,
	"text/markdown": true,
	"text/csv":      true,
}

const pdfType = "application/pdf"

// Classify maps an attachment's MIME type and payload to a content block.
// Images in the allow-list become image blocks, PDFs become document blocks,
// and text-like types are decoded and inlined as text. Unsupported types
// return ok=false; the caller logs and drops the attachment.
func Classify(contentType string, data []byte, filename string) (Block, bool) {
	contentType = strings.TrimSpace(contentType)

	switch {
	case supportedImageTypes[contentType]:
		return Block{Kind: KindImage, Data: data, MediaType: contentType}, true

	case contentType == pdfType:
		return Block{Kind: KindDocument, Data: data, MediaType: pdfType}, true

	case supportedTextTypes[contentType] || strings.HasPrefix(contentType, "text/"):
		text := decodeText(data)
		if filename != "" {
			text = "[File: " + filename + "]\n\n" + text
		}
		return TextBlock(text), true
	}

	return Block{}, false
}

// decodeText decodes the payload as UTF-8, falling back to Latin-1 so that
// decoding never fails.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
