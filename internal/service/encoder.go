package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/user/filmrec/internal/utils"
)

// Encoder turns text into fixed-dimension vectors. One encoder serves the
// whole deployment; its model, and therefore its vector space, never changes
// within a process lifetime.
type Encoder interface {
	// Encode embeds a batch of texts. Every returned vector has Dim()
	// components.
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	// Dim reports the vector dimensionality, 0 before the model is known.
	Dim() int
	// Model identifies the embedding model, used to tag stored vectors.
	Model() string
}

// EmbeddingRequest is the Ollama embedding API request body.
type EmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// EmbeddingResponse is the Ollama embedding API response body.
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// OllamaEncoder embeds text through a local Ollama instance.
type OllamaEncoder struct {
	host      string
	model     string
	normalize bool
	dim       int
	client    *http.Client
}

// NewOllamaEncoder creates an encoder against the given Ollama host. When
// normalize is set every output vector is scaled to unit L2 norm, which
// makes cosine distance and inner-product distance coincide.
func NewOllamaEncoder(host, model string, normalize bool) *OllamaEncoder {
	return &OllamaEncoder{
		host:      host,
		model:     model,
		normalize: normalize,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Probe embeds a throwaway text to force the model load on the Ollama side
// and learn the output dimensionality.
func (e *OllamaEncoder) Probe(ctx context.Context) error {
	vec, err := e.embedOne(ctx, "probe")
	if err != nil {
		return err
	}
	if len(vec) == 0 {
		return fmt.Errorf("model %s returned an empty vector", e.model)
	}
	e.dim = len(vec)
	return nil
}

func (e *OllamaEncoder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(EmbeddingRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.host+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post request to ollama failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned error status: %d", resp.StatusCode)
	}

	var result EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	return result.Embedding, nil
}

// Encode embeds each text in turn. The Ollama embedding endpoint takes one
// prompt per call, so a batch is a sequential loop.
func (e *OllamaEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		if e.dim > 0 && len(vec) != e.dim {
			return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", e.dim, len(vec))
		}
		if e.dim == 0 {
			e.dim = len(vec)
		}
		if e.normalize {
			vec = utils.NormalizeL2(vec)
		}
		out = append(out, vec)
	}
	return out, nil
}

func (e *OllamaEncoder) Dim() int      { return e.dim }
func (e *OllamaEncoder) Model() string { return e.model }

// LazyEncoder defers the model load to the first Encode call and memoizes
// the outcome. Concurrent first calls serialize on the load; a failed load
// is cached and replayed as ErrEncoderUnavailable on every later call, so a
// model that cannot load degrades to fast failures instead of hammering the
// runtime with repeated load attempts. Context cancellation and deadline
// expiry are the caller's condition, not the model's, and never become
// sticky: the next call loads again.
type LazyEncoder struct {
	model string
	load  func(ctx context.Context) (Encoder, error)

	mu  sync.Mutex
	enc Encoder
	err error
}

// NewLazyEncoder wraps a load function. model is known without loading and
// is what stored embeddings get tagged with.
func NewLazyEncoder(model string, load func(ctx context.Context) (Encoder, error)) *LazyEncoder {
	return &LazyEncoder{model: model, load: load}
}

// NewLazyOllamaEncoder is the production wiring: lazy-loaded Ollama encoder.
func NewLazyOllamaEncoder(host, model string, normalize bool) *LazyEncoder {
	return NewLazyEncoder(model, func(ctx context.Context) (Encoder, error) {
		enc := NewOllamaEncoder(host, model, normalize)
		if err := enc.Probe(ctx); err != nil {
			return nil, err
		}
		return enc, nil
	})
}

func (l *LazyEncoder) get(ctx context.Context) (Encoder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enc != nil {
		return l.enc, nil
	}
	if l.err != nil {
		return nil, l.err
	}

	enc, err := l.load(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			l.err = err
		}
		return nil, err
	}
	l.enc = enc
	return enc, nil
}

// Encode loads the model on first use, then delegates.
func (l *LazyEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	enc, err := l.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}
	return enc.Encode(ctx, texts)
}

// Dim reports the dimensionality once the model has loaded, 0 before.
func (l *LazyEncoder) Dim() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enc == nil {
		return 0
	}
	return l.enc.Dim()
}

func (l *LazyEncoder) Model() string { return l.model }
