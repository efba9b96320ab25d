package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fast = Config{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"status 503", &StatusError{503}, true},
		{"regular error", errors.New("something"), false},
		{"dns timeout", &net.DNSError{IsTimeout: true}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestDoRetryThenSuccess(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fast, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{503}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDoNonRetryable(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fast, func() (int, error) {
		calls++
		return 0, errors.New("bad request")
	})

	assert.EqualError(t, err, "bad request")
	assert.Equal(t, 1, calls)
}

func TestDoExhausted(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fast.WithMaxRetries(1), func() (int, error) {
		calls++
		return 0, &StatusError{502}
	})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 502, statusErr.StatusCode)
	assert.Equal(t, 2, calls)
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, fast, func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPRetriesStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := HTTP(context.Background(), fast, func() (*http.Response, error) {
		return http.Get(srv.URL)
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
}
