package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// stubEncoder is a loaded encoder returning canned vectors.
type stubEncoder struct {
	dim   int
	model string
}

func (s *stubEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, s.dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

func (s *stubEncoder) Dim() int      { return s.dim }
func (s *stubEncoder) Model() string { return s.model }

func TestLazyEncoder(t *testing.T) {
	t.Run("loads once and delegates", func(t *testing.T) {
		var loads atomic.Int32
		lazy := NewLazyEncoder("stub", func(ctx context.Context) (Encoder, error) {
			loads.Add(1)
			return &stubEncoder{dim: 4, model: "stub"}, nil
		})

		for i := 0; i < 3; i++ {
			vecs, err := lazy.Encode(context.Background(), []string{"a", "b"})
			if err != nil {
				t.Fatal(err)
			}
			if len(vecs) != 2 || len(vecs[0]) != 4 {
				t.Fatalf("unexpected shape: %d x %d", len(vecs), len(vecs[0]))
			}
		}
		if got := loads.Load(); got != 1 {
			t.Errorf("load ran %d times, want 1", got)
		}
		if lazy.Dim() != 4 {
			t.Errorf("Dim = %d, want 4", lazy.Dim())
		}
	})

	t.Run("failure is sticky and not retried", func(t *testing.T) {
		var loads atomic.Int32
		lazy := NewLazyEncoder("stub", func(ctx context.Context) (Encoder, error) {
			loads.Add(1)
			return nil, fmt.Errorf("out of memory")
		})

		_, err1 := lazy.Encode(context.Background(), []string{"a"})
		_, err2 := lazy.Encode(context.Background(), []string{"a"})

		if !errors.Is(err1, ErrEncoderUnavailable) {
			t.Errorf("first error = %v, want ErrEncoderUnavailable", err1)
		}
		if !errors.Is(err2, ErrEncoderUnavailable) {
			t.Errorf("second error = %v, want ErrEncoderUnavailable", err2)
		}
		if got := loads.Load(); got != 1 {
			t.Errorf("load ran %d times, want exactly 1", got)
		}
	})

	t.Run("cancelled first call does not poison later ones", func(t *testing.T) {
		var loads atomic.Int32
		lazy := NewLazyEncoder("stub", func(ctx context.Context) (Encoder, error) {
			loads.Add(1)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return &stubEncoder{dim: 4, model: "stub"}, nil
		})

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := lazy.Encode(cancelled, []string{"a"}); !errors.Is(err, ErrEncoderUnavailable) {
			t.Fatalf("first error = %v, want ErrEncoderUnavailable", err)
		}

		vecs, err := lazy.Encode(context.Background(), []string{"a"})
		if err != nil {
			t.Fatalf("retry after cancellation failed: %v", err)
		}
		if len(vecs) != 1 || len(vecs[0]) != 4 {
			t.Fatalf("unexpected shape: %d x %d", len(vecs), len(vecs[0]))
		}
		if got := loads.Load(); got != 2 {
			t.Errorf("load ran %d times, want 2", got)
		}
	})

	t.Run("deadline expiry is not sticky either", func(t *testing.T) {
		var loads atomic.Int32
		lazy := NewLazyEncoder("stub", func(ctx context.Context) (Encoder, error) {
			loads.Add(1)
			if loads.Load() == 1 {
				return nil, fmt.Errorf("probe: %w", context.DeadlineExceeded)
			}
			return &stubEncoder{dim: 2, model: "stub"}, nil
		})

		if _, err := lazy.Encode(context.Background(), []string{"a"}); err == nil {
			t.Fatal("first call should fail")
		}
		if _, err := lazy.Encode(context.Background(), []string{"a"}); err != nil {
			t.Fatalf("retry after deadline failed: %v", err)
		}
		if got := loads.Load(); got != 2 {
			t.Errorf("load ran %d times, want 2", got)
		}
	})

	t.Run("concurrent first calls load once", func(t *testing.T) {
		var loads atomic.Int32
		lazy := NewLazyEncoder("stub", func(ctx context.Context) (Encoder, error) {
			loads.Add(1)
			return &stubEncoder{dim: 2, model: "stub"}, nil
		})

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := lazy.Encode(context.Background(), []string{"x"}); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()

		if got := loads.Load(); got != 1 {
			t.Errorf("load ran %d times, want 1", got)
		}
	})

	t.Run("model known before load", func(t *testing.T) {
		lazy := NewLazyEncoder("the-model", func(ctx context.Context) (Encoder, error) {
			t.Fatal("load must not run")
			return nil, nil
		})
		if lazy.Model() != "the-model" {
			t.Errorf("Model = %q", lazy.Model())
		}
		if lazy.Dim() != 0 {
			t.Errorf("Dim before load = %d, want 0", lazy.Dim())
		}
	})
}
