package domain

import "context"

// Document is one uploaded file held by the reference backend.
type Document struct {
	ID      string
	Name    string
	Path    string
	Content string
	Hash    string
	// ImageURL is set for image uploads; their Content is a caption.
	ImageURL string
}

// Chunk is a semantically meaningful part of a document used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	File       string
	Text       string
	Index      int
	ImageURL   string
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear(ctx context.Context) error
}

// Summarizer produces a brief summary of the provided text, optionally
// focused on a query.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
	SummarizeFor(query, text string, maxSentences int) (string, error)
}
