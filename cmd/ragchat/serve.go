package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"ragchat/internal/chunker"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/embedding"
	"ragchat/internal/history"
	"ragchat/internal/server"
	"ragchat/internal/service"
	"ragchat/internal/summarizer"
	"ragchat/internal/vectorstore"
)

func runServe(ctx context.Context, cfg *config.AppConfig) error {
	svc, err := buildService(ctx, cfg.Backend)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Backend.Addr,
		Handler:           server.NewRouter(svc, cfg.Backend.GinMode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Serving on %s (uploads in %s)", cfg.Backend.Addr, cfg.Backend.UploadDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildService assembles the backend components selected in the config and
// re-indexes whatever is already in the upload directory.
func buildService(ctx context.Context, cfg config.BackendConfig) (*service.RAGService, error) {
	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	st, err := vectorstore.New(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	hist, err := history.New(cfg.History)
	if err != nil {
		return nil, err
	}

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "sentence", "":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Chunker.Type)
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	svc := service.NewRAGService(service.Options{
		Chunker:      ch,
		Embedder:     emb,
		Store:        st,
		Summarizer:   sum,
		History:      hist,
		UploadDir:    cfg.UploadDir,
		TopK:         cfg.TopK,
		MaxSentences: cfg.Summarizer.MaxSentences,
	})
	if err := svc.Restore(ctx); err != nil {
		return nil, fmt.Errorf("restore uploads: %w", err)
	}
	return svc, nil
}
