// Package content builds the typed content blocks that make up one
// conversational turn: the user's text plus any classified attachments.
package content

// Kind identifies the type of a content block.
type Kind string

const (
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// Block is one typed unit of turn content. Text blocks carry Text; image and
// document blocks carry the raw payload and its MIME type. Blocks hold raw
// bytes only — the wire encoding is the completion client's concern.
type Block struct {
	Kind      Kind
	Text      string
	Data      []byte
	MediaType string
}

// TextBlock returns a text content block.
func TextBlock(text string) Block {
	return Block{Kind: KindText, Text: text}
}

// Attachment describes a platform attachment before it is fetched.
type Attachment struct {
	URL         string
	ContentType string
	Filename    string
}
