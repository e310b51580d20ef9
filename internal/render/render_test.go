package render

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkShortText(t *testing.T) {
	t.Parallel()

	got := Chunk("Hello, world!", ChunkSize)
	if len(got) != 1 || got[0] != "Hello, world!" {
		t.Errorf("Chunk() = %v, want single chunk", got)
	}
}

func TestChunkExactBoundary(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", ChunkSize)
	got := Chunk(text, ChunkSize)
	if len(got) != 1 {
		t.Fatalf("Chunk() len = %d, want 1", len(got))
	}
	if got[0] != text {
		t.Error("chunk at exact boundary must equal the input")
	}
}

func TestChunkSplits(t *testing.T) {
	t.Parallel()

	got := Chunk(strings.Repeat("a", 7100), ChunkSize)
	if len(got) != 3 {
		t.Fatalf("Chunk() len = %d, want 3", len(got))
	}
	wantSizes := []int{3500, 3500, 100}
	for i, want := range wantSizes {
		if len(got[i]) != want {
			t.Errorf("len(chunk[%d]) = %d, want %d", i, len(got[i]), want)
		}
	}
}

func TestChunkCustomSize(t *testing.T) {
	t.Parallel()

	got := Chunk("Hello, world! This is a test.", 10)
	want := []string{"Hello, wor", "ld! This i", "s a test."}
	if len(got) != len(want) {
		t.Fatalf("Chunk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChunkCountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("é", ChunkSize)
	got := Chunk(text, ChunkSize)
	if len(got) != 1 {
		t.Fatalf("Chunk() len = %d, want 1", len(got))
	}
	if got[0] != text {
		t.Error("chunk of exactly ChunkSize characters must equal the input")
	}

	got = Chunk(strings.Repeat("日", 25), 10)
	wantCounts := []int{10, 10, 5}
	if len(got) != len(wantCounts) {
		t.Fatalf("Chunk() len = %d, want %d", len(got), len(wantCounts))
	}
	for i, want := range wantCounts {
		if !utf8.ValidString(got[i]) {
			t.Fatalf("chunk[%d] is not valid UTF-8: %q", i, got[i])
		}
		if n := utf8.RuneCountInString(got[i]); n != want {
			t.Errorf("chunk[%d] runes = %d, want %d", i, n, want)
		}
	}
}

func TestChunkEmpty(t *testing.T) {
	t.Parallel()

	if got := Chunk("", ChunkSize); len(got) != 0 {
		t.Errorf("Chunk(\"\") = %v, want none", got)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		max  int
		want string
	}{
		{"Hello", 10, "Hello"},
		{"Hello", 5, "Hello"},
		{"Hello, world!", 8, "Hello, w..."},
		{"", 4, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.text, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
		}
	}
}

func TestTruncateCountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	got := Truncate(strings.Repeat("日", 10), 8)
	if !utf8.ValidString(got) {
		t.Fatalf("Truncate() produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("日", 8) + "..."; got != want {
		t.Errorf("Truncate() = %q, want %q", got, want)
	}

	whole := strings.Repeat("é", 8)
	if got := Truncate(whole, 8); got != whole {
		t.Errorf("Truncate() at limit = %q, want unchanged", got)
	}
}

func TestResponseSingleUnit(t *testing.T) {
	t.Parallel()

	units := Response("short answer")
	if len(units) != 1 {
		t.Fatalf("Response() len = %d, want 1", len(units))
	}
	if units[0].Title != "Response" {
		t.Errorf("title = %q, want %q", units[0].Title, "Response")
	}
	if units[0].Body != "short answer" {
		t.Errorf("body = %q", units[0].Body)
	}
}

func TestResponseContinuationTitles(t *testing.T) {
	t.Parallel()

	units := Response(strings.Repeat("a", 7100))
	if len(units) != 3 {
		t.Fatalf("Response() len = %d, want 3", len(units))
	}
	if units[1].Title != "Response (Part 2)" {
		t.Errorf("units[1].Title = %q", units[1].Title)
	}
	if units[2].Title != "Response (Part 3)" {
		t.Errorf("units[2].Title = %q", units[2].Title)
	}
}

func TestResponseTruncatesOversized(t *testing.T) {
	t.Parallel()

	units := Response(strings.Repeat("a", 25000))
	var total int
	for _, u := range units {
		total += len(u.Body)
	}
	wantTotal := truncatedResponseLength + len(responseTruncatedMarker)
	if total != wantTotal {
		t.Errorf("total rendered length = %d, want %d", total, wantTotal)
	}
	last := units[len(units)-1].Body
	if !strings.Contains(last, "[Response truncated due to length]") {
		t.Error("truncated response must end with the truncation marker")
	}
}

func TestResponseNonASCIIBoundary(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("é", ChunkSize)
	units := Response(text)
	if len(units) != 1 {
		t.Fatalf("Response() len = %d, want 1", len(units))
	}
	if units[0].Body != text {
		t.Error("response of exactly ChunkSize characters must be one untouched unit")
	}

	units = Response(strings.Repeat("日", 25000))
	for i, u := range units {
		if !utf8.ValidString(u.Body) {
			t.Fatalf("units[%d].Body is not valid UTF-8", i)
		}
	}
	var total int
	for _, u := range units {
		total += utf8.RuneCountInString(u.Body)
	}
	wantTotal := truncatedResponseLength + len(responseTruncatedMarker)
	if total != wantTotal {
		t.Errorf("total rendered characters = %d, want %d", total, wantTotal)
	}
}

func TestReasoningEmpty(t *testing.T) {
	t.Parallel()

	if units := Reasoning(""); len(units) != 0 {
		t.Errorf("Reasoning(\"\") = %v, want none", units)
	}
	if units := Reasoning("   \n"); len(units) != 0 {
		t.Errorf("Reasoning(blank) = %v, want none", units)
	}
}

func TestReasoningSpoilerWrapped(t *testing.T) {
	t.Parallel()

	units := Reasoning("let me think")
	if len(units) != 1 {
		t.Fatalf("Reasoning() len = %d, want 1", len(units))
	}
	if !strings.HasPrefix(units[0].Body, "||") || !strings.HasSuffix(units[0].Body, "||") {
		t.Errorf("body = %q, want spoiler-wrapped", units[0].Body)
	}
}

func TestReasoningTruncated(t *testing.T) {
	t.Parallel()

	units := Reasoning(strings.Repeat("r", 5000))
	if len(units) != 1 {
		t.Fatalf("Reasoning() len = %d, want 1", len(units))
	}
	if !strings.Contains(units[0].Body, "[thinking truncated]") {
		t.Error("oversized reasoning must carry the truncation marker")
	}
	if len(units[0].Body) > maxReasoningLength+len(reasoningTruncatedMarker)+4 {
		t.Errorf("reasoning body length = %d, want bounded", len(units[0].Body))
	}

	units = Reasoning(strings.Repeat("思", 5000))
	if len(units) != 1 || !utf8.ValidString(units[0].Body) {
		t.Fatal("truncated non-ASCII reasoning must stay valid UTF-8")
	}
}
