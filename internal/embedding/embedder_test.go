package embedding

import (
	"testing"

	"ragchat/internal/config"
)

func TestNew(t *testing.T) {
	t.Setenv("EMBED_TEST_KEY", "k")
	tests := []struct {
		name     string
		cfg      config.EmbedderConfig
		wantName string
		wantErr  bool
	}{
		{name: "default", cfg: config.EmbedderConfig{}, wantName: "tfidf"},
		{name: "openai", cfg: config.EmbedderConfig{Type: "openai", OpenAI: &config.OpenAIEmbedderConfig{APIKeyEnv: "EMBED_TEST_KEY"}}, wantName: "openai"},
		{name: "openai without section", cfg: config.EmbedderConfig{Type: "openai"}, wantErr: true},
		{name: "unknown", cfg: config.EmbedderConfig{Type: "word2vec"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emb, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if emb.Name() != tt.wantName {
				t.Errorf("got %q, want %q", emb.Name(), tt.wantName)
			}
		})
	}
}
