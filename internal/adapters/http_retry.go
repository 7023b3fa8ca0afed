package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultHTTPRetries    = 3
	defaultHTTPRetryDelay = 200 * time.Millisecond
	maxHTTPRetryDelay     = 2 * time.Second
)

type httpRetryConfig struct {
	timeout   time.Duration
	retries   int
	baseDelay time.Duration
}

func normalizeHTTPConfig(timeoutSec int, retries int, delayMs int) httpRetryConfig {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retryCount := retries
	if retryCount <= 0 {
		retryCount = defaultHTTPRetries
	}
	baseDelay := time.Duration(delayMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = defaultHTTPRetryDelay
	}
	return httpRetryConfig{
		timeout:   timeout,
		retries:   retryCount,
		baseDelay: baseDelay,
	}
}

// doRequest issues a GET. Network errors, 5xx and 429 responses are
// retried with exponential backoff; a Retry-After header on the response
// replaces the computed delay.
func doRequest(ctx context.Context, client *http.Client, url string, headers map[string]string, cfg httpRetryConfig) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create request").
			WithCause(err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.retries; attempt++ {
		if attempt > 0 {
			log.Ctx(ctx).Debug().Str("url", url).Int("attempt", attempt+1).Err(lastErr).Msg("retrying request")
		}
		resp, err := client.Do(req)
		switch {
		case ctx.Err() != nil:
			if resp != nil {
				resp.Body.Close()
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request canceled").
				WithCause(ctx.Err())
		case err != nil:
			lastErr = err
		case retryableStatus(resp.StatusCode):
			lastErr = fmt.Errorf("%s returned %s", url, resp.Status)
			if attempt == cfg.retries-1 {
				return resp, nil
			}
			wait := retryAfter(resp.Header.Get("Retry-After"), httpRetryDelay(attempt, cfg))
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			sleepContext(ctx, wait)
			continue
		default:
			return resp, nil
		}
		if attempt < cfg.retries-1 {
			sleepContext(ctx, httpRetryDelay(attempt, cfg))
		}
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("request failed").
		WithCause(lastErr)
}

func retryableStatus(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

// retryAfter reads a Retry-After value in seconds, capped like the
// backoff delay.
func retryAfter(header string, fallback time.Duration) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return fallback
	}
	return min(time.Duration(seconds)*time.Second, maxHTTPRetryDelay)
}

func httpRetryDelay(attempt int, cfg httpRetryConfig) time.Duration {
	delay := cfg.baseDelay * time.Duration(1<<attempt)
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
