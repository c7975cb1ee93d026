package service

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"maps"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ragchat/internal/domain"
	"ragchat/internal/history"
	"ragchat/internal/metrics"
	"ragchat/internal/textutil"
)

var (
	ErrEmptyQuestion   = errors.New("empty question")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// NoAnswer is returned when nothing in the index matches a question.
const NoAnswer = "I could not find anything relevant in the indexed documents."

var (
	textExtensions  = map[string]bool{".txt": true, ".md": true, ".csv": true}
	imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
	unsafeNameRe    = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// UploadedFile is one file of an upload batch.
type UploadedFile struct {
	Name string
	Data []byte
}

// FileResult reports what happened to one uploaded file.
type FileResult struct {
	File   string `json:"file"`
	Chunks int    `json:"chunks"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DocumentInfo is one entry of the indexed-document listing.
type DocumentInfo struct {
	File   string `json:"file"`
	Chunks int    `json:"chunks"`
}

// Source is a retrieved chunk backing an answer.
type Source struct {
	File    string  `json:"file"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Answer is the reply to one question.
type Answer struct {
	Text    string
	Sources []Source
	Images  []domain.Image
}

// Options wires the service to its collaborators.
type Options struct {
	Chunker      domain.Chunker
	Embedder     domain.Embedder
	Store        domain.VectorStore
	Summarizer   domain.Summarizer
	History      history.Store
	UploadDir    string
	TopK         int
	MaxSentences int
}

type indexedDoc struct {
	doc    domain.Document
	chunks []domain.Chunk
}

// RAGService indexes uploaded files and answers questions from them.
type RAGService struct {
	chunker      domain.Chunker
	embedder     domain.Embedder
	store        domain.VectorStore
	summarizer   domain.Summarizer
	history      history.Store
	uploadDir    string
	topK         int
	maxSentences int

	mu   sync.RWMutex
	docs map[string]*indexedDoc
}

func NewRAGService(opts Options) *RAGService {
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = 5
	}
	if opts.History == nil {
		opts.History = history.NewMemoryStore(history.DefaultLimit)
	}
	return &RAGService{
		chunker:      opts.Chunker,
		embedder:     opts.Embedder,
		store:        opts.Store,
		summarizer:   opts.Summarizer,
		history:      opts.History,
		uploadDir:    opts.UploadDir,
		topK:         opts.TopK,
		maxSentences: opts.MaxSentences,
		docs:         make(map[string]*indexedDoc),
	}
}

// UploadDir is where uploaded files are saved and served from.
func (s *RAGService) UploadDir() string { return s.uploadDir }

// Ingest saves and indexes a batch. A file whose content is already indexed,
// under any name, is skipped; a known name with new content replaces the old
// chunks. Per-file problems are reported in the results. The error is only for
// a failed rebuild, in which case the batch is rolled back and every file it
// changed is reported as failed.
func (s *RAGService) Ingest(ctx context.Context, files []UploadedFile) ([]FileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.docs)
	results := make([]FileResult, 0, len(files))
	var written []savedFile
	for _, f := range files {
		res, saved := s.ingestOne(next, f)
		if saved != nil {
			saved.result = len(results)
			written = append(written, *saved)
		}
		results = append(results, res)
	}

	var err error
	if len(written) > 0 {
		if err = s.rebuild(ctx, next); err != nil {
			rollback(written)
			for _, w := range written {
				results[w.result].Status = metrics.StatusFailed
				results[w.result].Chunks = 0
				results[w.result].Error = err.Error()
			}
			if rerr := s.rebuild(ctx, s.docs); rerr != nil {
				log.Printf("Failed to restore the previous index: %v", rerr)
			}
			err = fmt.Errorf("rebuild index: %w", err)
		} else {
			s.docs = next
		}
	}
	for _, res := range results {
		metrics.RecordUpload(res.Status)
	}
	return results, err
}

// Restore indexes the files already present in the upload directory, so a
// restarted server lists and answers from what was uploaded before.
func (s *RAGService) Restore(ctx context.Context) error {
	if s.uploadDir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read upload dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]*indexedDoc)
	for _, e := range entries {
		if !e.Type().IsRegular() || SafeName(e.Name()) != e.Name() {
			continue
		}
		path := filepath.Join(s.uploadDir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		doc, err := s.toDocument(e.Name(), data)
		if err != nil {
			log.Printf("Not restoring %s: %v", e.Name(), err)
			continue
		}
		if dup := findByHash(next, doc.Hash); dup != nil {
			log.Printf("Not restoring %s: same content as %s", e.Name(), dup.doc.Name)
			continue
		}
		doc.Path = path
		chunks, err := s.chunker.Chunk(doc)
		if err != nil {
			return fmt.Errorf("chunk %s: %w", e.Name(), err)
		}
		next[doc.Name] = &indexedDoc{doc: doc, chunks: chunks}
	}
	if err := s.rebuild(ctx, next); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	s.docs = next
	log.Printf("Restored %d documents from %s", len(next), s.uploadDir)
	return nil
}

// savedFile remembers what an upload overwrote so a failed batch can be undone.
type savedFile struct {
	result  int
	path    string
	existed bool
	backup  []byte
}

func (s *RAGService) ingestOne(docs map[string]*indexedDoc, f UploadedFile) (FileResult, *savedFile) {
	name := SafeName(f.Name)
	res := FileResult{File: name}

	doc, err := s.toDocument(name, f.Data)
	if err != nil {
		res.Status = metrics.StatusUnsupported
		res.Error = err.Error()
		return res, nil
	}
	if dup := findByHash(docs, doc.Hash); dup != nil {
		log.Printf("Skipping %s: same content as %s", name, dup.doc.Name)
		res.Status = metrics.StatusSkipped
		res.Chunks = len(dup.chunks)
		return res, nil
	}
	res.Status = metrics.StatusIndexed
	if _, ok := docs[name]; ok {
		res.Status = metrics.StatusUpdated
	}

	chunks, err := s.chunker.Chunk(doc)
	if err != nil {
		res.Status = metrics.StatusFailed
		res.Error = err.Error()
		return res, nil
	}
	saved := &savedFile{}
	if s.uploadDir != "" {
		doc.Path = filepath.Join(s.uploadDir, name)
		saved, err = saveFile(doc.Path, f.Data)
		if err != nil {
			res.Status = metrics.StatusFailed
			res.Error = err.Error()
			return res, nil
		}
	}
	docs[name] = &indexedDoc{doc: doc, chunks: chunks}
	res.Chunks = len(chunks)
	log.Printf("%s %s with %d chunks", res.Status, name, len(chunks))
	return res, saved
}

func findByHash(docs map[string]*indexedDoc, hash string) *indexedDoc {
	for _, d := range docs {
		if d.doc.Hash == hash {
			return d
		}
	}
	return nil
}

func (s *RAGService) toDocument(name string, data []byte) (domain.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	sum := sha256.Sum256(data)
	doc := domain.Document{ID: hashString(name), Name: name, Hash: hex.EncodeToString(sum[:])}
	switch {
	case textExtensions[ext]:
		if !utf8.Valid(data) {
			return doc, fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupportedType, name)
		}
		doc.Content = string(data)
	case imageExtensions[ext]:
		doc.ImageURL = "/uploads/" + url.PathEscape(name)
		doc.Content = captionFromName(name)
	default:
		return doc, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return doc, nil
}

// rebuild re-embeds the whole corpus. TF-IDF vectors depend on corpus
// statistics, so partial updates would not be comparable. The store is only
// cleared once every vector has been computed.
func (s *RAGService) rebuild(ctx context.Context, docs map[string]*indexedDoc) error {
	start := time.Now()
	chunks := allChunks(docs)
	if len(chunks) == 0 {
		if err := s.store.Clear(ctx); err != nil {
			return err
		}
		metrics.RecordIndexSize(len(docs), 0, time.Since(start))
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	if err := s.embedder.Prepare(texts); err != nil {
		return err
	}
	vectors := make([][]float64, len(chunks))
	for i, t := range texts {
		vec, err := s.embedder.Embed(ctx, t)
		if err != nil {
			return err
		}
		vectors[i] = vec
	}
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if err := s.store.Init(ctx, len(vectors[0])); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, chunks, vectors); err != nil {
		return err
	}
	metrics.RecordIndexSize(len(docs), len(chunks), time.Since(start))
	return nil
}

func (s *RAGService) hasChunks() bool {
	for _, d := range s.docs {
		if len(d.chunks) > 0 {
			return true
		}
	}
	return false
}

func allChunks(docs map[string]*indexedDoc) []domain.Chunk {
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	var out []domain.Chunk
	for _, name := range names {
		out = append(out, docs[name].chunks...)
	}
	return out
}

// Documents lists indexed files sorted by name.
func (s *RAGService) Documents() []DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DocumentInfo, 0, len(s.docs))
	for name, d := range s.docs {
		out = append(out, DocumentInfo{File: name, Chunks: len(d.chunks)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

// Ask answers a question from the indexed documents and records the turn in
// the session history.
func (s *RAGService) Ask(ctx context.Context, sessionID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	start := time.Now()
	results, err := s.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	answer, err := s.compose(question, results)
	if err != nil {
		return nil, err
	}
	metrics.RecordChat(time.Since(start), len(answer.Sources))

	now := time.Now()
	if err := s.history.Append(ctx, sessionID,
		domain.ChatMessage{Role: domain.RoleUser, Text: question, Timestamp: now},
		domain.ChatMessage{Role: domain.RoleBot, Text: answer.Text, Images: answer.Images, Timestamp: now},
	); err != nil {
		log.Printf("Failed to record history for session %s: %v", sessionID, err)
	}
	return answer, nil
}

// History returns the recorded turns of a session.
func (s *RAGService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return s.history.Get(ctx, sessionID)
}

func (s *RAGService) retrieve(ctx context.Context, question string) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasChunks() {
		return nil, nil
	}
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}
	if isZero(vec) {
		return s.lexicalSearch(question), nil
	}
	res, err := s.store.Search(ctx, vec, s.topK)
	if err != nil {
		return nil, err
	}
	for _, r := range res {
		if r.Score > 1e-9 {
			return res, nil
		}
	}
	return s.lexicalSearch(question), nil
}

func (s *RAGService) compose(question string, results []domain.SearchResult) (*Answer, error) {
	answer := &Answer{}
	var passages strings.Builder
	seenImages := map[string]bool{}
	for _, r := range results {
		if r.Score <= 1e-9 {
			continue
		}
		c := r.Chunk
		answer.Sources = append(answer.Sources, Source{File: c.File, Content: c.Text, Score: r.Score})
		if c.ImageURL != "" {
			if !seenImages[c.ImageURL] {
				seenImages[c.ImageURL] = true
				answer.Images = append(answer.Images, domain.Image{URL: c.ImageURL, Caption: c.Text})
			}
			continue
		}
		passages.WriteString(c.Text)
		passages.WriteString("\n")
	}
	if len(answer.Sources) == 0 {
		answer.Text = NoAnswer
		return answer, nil
	}
	text, err := s.summarizer.SummarizeFor(question, passages.String(), s.maxSentences)
	if err != nil {
		return nil, err
	}
	if text == "" {
		text = "See the referenced figures."
	}
	answer.Text = text
	return answer, nil
}

func (s *RAGService) lexicalSearch(query string) []domain.SearchResult {
	qset := textutil.TermSet(query)
	var out []domain.SearchResult
	for _, c := range allChunks(s.docs) {
		out = append(out, domain.SearchResult{Chunk: c, Score: textutil.Ochiai(qset, c.Text)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > s.topK {
		out = out[:s.topK]
	}
	return out
}

// SafeName reduces an uploaded file name to a base name of safe characters.
func SafeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Trim(unsafeNameRe.ReplaceAllString(base, "_"), "._")
	if base == "" {
		return "upload"
	}
	return base
}

// saveFile writes data to path and returns what was there before.
func saveFile(path string, data []byte) (*savedFile, error) {
	saved := &savedFile{path: path}
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		saved.existed, saved.backup = true, old
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return saved, nil
}

// rollback puts back the files a failed batch overwrote and removes new ones.
func rollback(files []savedFile) {
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if f.path == "" {
			continue
		}
		var err error
		if f.existed {
			err = os.WriteFile(f.path, f.backup, 0o644)
		} else {
			err = os.Remove(f.path)
		}
		if err != nil {
			log.Printf("Failed to roll back %s: %v", f.path, err)
		}
	}
}

func captionFromName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Join(strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	}), " ")
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if math.Abs(v) > 0 {
			return false
		}
	}
	return true
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
