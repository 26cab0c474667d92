package rotation

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/provider"
)

// stubClient records the key it was built with.
type stubClient struct {
	key   string
	model string
}

func (c *stubClient) Model() string { return c.model }
func (c *stubClient) GenerateContent(ctx context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	return &provider.GenerateResponse{Text: "ok"}, nil
}
func (c *stubClient) Close() error { return nil }

func stubFactory(key, model string) (provider.Client, error) {
	return &stubClient{key: key, model: model}, nil
}

func TestDoEmptyPool(t *testing.T) {
	r := New(nil, stubFactory)

	err := r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
		t.Error("operation should not run with an empty pool")
		return nil
	})
	if err == nil {
		t.Fatal("Do() = nil, want configuration error")
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeServerError {
		t.Errorf("error = %v, want server_error APIError", err)
	}
}

func TestDoFirstKeySucceeds(t *testing.T) {
	r := New([]string{"a", "b", "c"}, stubFactory, WithRand(rand.New(rand.NewSource(1))))

	attempts := 0
	err := r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
		attempts++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (success short-circuits)", attempts)
	}
}

func TestDoRotatesOnRetryableError(t *testing.T) {
	r := New([]string{"a", "b", "c"}, stubFactory, WithRand(rand.New(rand.NewSource(1))))

	attempts := 0
	err := r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
		attempts++
		if attempts < 3 {
			return api.NewRateLimitedError("quota exceeded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoStopsOnFatalError(t *testing.T) {
	r := New([]string{"a", "b", "c"}, stubFactory)

	fatal := api.NewInvalidRequestError("", "malformed request")
	attempts := 0
	err := r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
		attempts++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Errorf("Do() error = %v, want the fatal error", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (fatal errors stop rotation)", attempts)
	}
}

func TestDoExhaustedPoolReturnsLastError(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	r := New(keys, stubFactory, WithRand(rand.New(rand.NewSource(7))))

	attempts := 0
	var lastErr error
	err := r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
		attempts++
		lastErr = api.NewRateLimitedError("quota " + c.(*stubClient).key)
		return lastErr
	})

	if attempts != len(keys) {
		t.Errorf("attempts = %d, want %d (at most one attempt per key)", attempts, len(keys))
	}
	if err != lastErr {
		t.Errorf("Do() error = %v, want last-seen error %v", err, lastErr)
	}
}

func TestDoUntypedRetryableErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantAttempts int
	}{
		{"untyped 429 rotates", errors.New("got 429 from upstream"), 2},
		{"untyped API key complaint rotates", errors.New("API key not valid"), 2},
		{"untyped unrelated stops", errors.New("connection reset"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New([]string{"a", "b"}, stubFactory)

			attempts := 0
			r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
				attempts++
				return tt.err
			})
			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
		})
	}
}

func TestDoShuffleIsDeterministicWithSeed(t *testing.T) {
	order := func(seed int64) []string {
		r := New([]string{"a", "b", "c", "d", "e"}, stubFactory, WithRand(rand.New(rand.NewSource(seed))))
		var got []string
		r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
			got = append(got, c.(*stubClient).key)
			return api.NewRateLimitedError("keep going")
		})
		return got
	}

	first := order(42)
	second := order(42)
	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("orders = %v, %v, want 5 attempts each", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("same seed produced different orders: %v vs %v", first, second)
			break
		}
	}
}

func TestDoFactoryErrorIsFatal(t *testing.T) {
	cfgErr := errors.New("bad configuration")
	factory := func(key, model string) (provider.Client, error) {
		return nil, cfgErr
	}
	r := New([]string{"a", "b"}, factory)

	err := r.Do(context.Background(), "m", func(ctx context.Context, c provider.Client) error {
		t.Error("operation should not run when the factory fails")
		return nil
	})
	if !errors.Is(err, cfgErr) {
		t.Errorf("Do() error = %v, want factory error", err)
	}
}

func TestDoBindsModelToHandle(t *testing.T) {
	r := New([]string{"a"}, stubFactory)

	err := r.Do(context.Background(), "gemini-vision", func(ctx context.Context, c provider.Client) error {
		if c.Model() != "gemini-vision" {
			t.Errorf("Model() = %q, want %q", c.Model(), "gemini-vision")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
