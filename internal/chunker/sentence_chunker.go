package chunker

import (
	"strconv"
	"strings"

	"ragchat/internal/domain"
	"ragchat/internal/textutil"
)

// SentenceChunker splits text into sentence-based chunks with overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	// overlap must leave progress
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
	}
}

// Chunk splits a text document into overlapping windows of sentences.
// An image document becomes a single chunk holding its caption.
func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	if document.ImageURL != "" {
		caption := strings.TrimSpace(document.Content)
		if caption == "" {
			caption = document.Name
		}
		return []domain.Chunk{c.chunk(document, 0, caption)}, nil
	}
	sentences := textutil.Sentences(document.Content)
	if len(sentences) == 0 {
		return nil, nil
	}
	var chunks []domain.Chunk
	for start, idx := 0, 0; start < len(sentences); idx++ {
		end := min(start+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, c.chunk(document, idx, strings.Join(sentences[start:end], " ")))
		if end == len(sentences) {
			break
		}
		start = end - c.overlapSentences
	}
	return chunks, nil
}

func (c *SentenceChunker) chunk(document domain.Document, idx int, text string) domain.Chunk {
	return domain.Chunk{
		DocumentID: document.ID,
		ChunkID:    document.ID + ":" + strconv.Itoa(idx),
		File:       document.Name,
		Text:       text,
		Index:      idx,
		ImageURL:   document.ImageURL,
	}
}
