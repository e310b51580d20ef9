// Package render turns generated text into bounded display units.
package render

import (
	"fmt"
	"strings"
)

const (
	// ChunkSize is the maximum number of characters in one display unit body.
	ChunkSize = 3500

	// Responses longer than maxResponseLength are cut down before chunking
	// so one reply cannot fan out into an unbounded number of messages.
	maxResponseLength       = 20000
	truncatedResponseLength = 19500
	responseTruncatedMarker = "\n\n... [Response truncated due to length]"

	// Reasoning is shown as a single collapsed unit, never chunked.
	maxReasoningLength       = 3600
	reasoningTruncatedMarker = "\n... [thinking truncated]"
)

// Unit is one rendered display unit: a titled body bounded by the platform's
// display limits.
type Unit struct {
	Title string
	Body  string
}

// Chunk splits text into size-character pieces; the final piece may be
// shorter. Bounds count characters, not bytes, so a cut never splits a
// multi-byte rune. Empty input yields no chunks.
func Chunk(text string, size int) []string {
	if size <= 0 || text == "" {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Truncate cuts text to max characters, appending an ellipsis when it was
// cut. Text at or under the limit is returned unchanged.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// Response renders generated text as an ordered list of display units.
// Oversized text is truncated with a marker before chunking; units past the
// first are labeled as continuations.
func Response(text string) []Unit {
	if runes := []rune(text); len(runes) > maxResponseLength {
		text = string(runes[:truncatedResponseLength]) + responseTruncatedMarker
	}

	chunks := Chunk(text, ChunkSize)
	units := make([]Unit, 0, len(chunks))
	for i, chunk := range chunks {
		title := "Response"
		if i > 0 {
			title = fmt.Sprintf("Response (Part %d)", i+1)
		}
		units = append(units, Unit{Title: title, Body: chunk})
	}
	return units
}

// Reasoning renders the model's auxiliary reasoning text as a single
// collapsed (spoiler-wrapped) unit, or nothing when there is no reasoning.
func Reasoning(text string) []Unit {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if runes := []rune(text); len(runes) > maxReasoningLength {
		text = string(runes[:maxReasoningLength]) + reasoningTruncatedMarker
	}
	return []Unit{{Title: "Thinking", Body: "||" + text + "||"}}
}
