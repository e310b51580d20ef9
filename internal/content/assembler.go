package content

import (
	"context"
	"log/slog"
)

// AttachmentFetcher downloads the raw bytes of one attachment.
type AttachmentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Assembler builds the ordered content-block list for one user turn.
type Assembler struct {
	logger  *slog.Logger
	fetcher AttachmentFetcher
}

func NewAssembler(log *slog.Logger, fetcher AttachmentFetcher) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{
		logger:  log.With(slog.String("component", "content")),
		fetcher: fetcher,
	}
}

// BuildContent returns the prompt as a text block followed by one classified
// block per attachment, in attachment order. Attachments that fail to fetch
// or classify are logged and skipped; the turn proceeds with what remains.
func (a *Assembler) BuildContent(ctx context.Context, prompt string, attachments []Attachment) []Block {
	blocks := []Block{TextBlock(prompt)}

	for _, att := range attachments {
		data, err := a.fetcher.Fetch(ctx, att.URL)
		if err != nil {
			a.logger.Warn("attachment fetch failed",
				slog.String("url", att.URL),
				slog.Any("error", err))
			continue
		}

		block, ok := Classify(att.ContentType, data, att.Filename)
		if !ok {
			a.logger.Warn("unsupported attachment type",
				slog.String("content_type", att.ContentType),
				slog.String("filename", att.Filename))
			continue
		}
		blocks = append(blocks, block)
	}

	return blocks
}
