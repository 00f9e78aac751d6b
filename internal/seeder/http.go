package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/eventreg/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getBody performs a GET request and returns the body of a 200 response.
func (c *HTTPClient) getBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return body, nil
}

// submitParticipants registers participants concurrently and returns the
// stored documents, in no particular order.
func submitParticipants(ctx context.Context, cfg *Config, participants []Participant, stats *Stats) []Participant {
	log := logger.Get().Named("seeder")
	log.Info(ctx, "submitting participants",
		logger.Int("count", len(participants)),
		logger.Int("workers", cfg.Workers),
	)

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/api/participants"

	var (
		submitted  int64
		successful int64
		failed     int64

		mu      sync.Mutex
		created = make([]Participant, 0, len(participants))
	)

	jobs := make(chan Participant, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				stored, err := submitSingleParticipant(ctx, client, url, p)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "registration failed", logger.String("email", p.Email), logger.Error(err))
					continue
				}
				atomic.AddInt64(&successful, 1)
				if cfg.Verbose {
					log.Debug(ctx, "registered", logger.String("id", stored.ID), logger.String("email", stored.Email))
				}
				mu.Lock()
				created = append(created, stored)
				mu.Unlock()
			}
		}()
	}

	done := make(chan struct{})
	go reportProgress(ctx, log, len(participants), &submitted, done)

	go func() {
		defer close(jobs)
		for _, p := range participants {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	wg.Wait()
	close(done)

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "participant submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
	)
	return created
}

func reportProgress(ctx context.Context, log logger.Logger, total int, submitted *int64, done <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Info(ctx, "progress",
				logger.Int64("submitted", atomic.LoadInt64(submitted)),
				logger.Int("total", total),
			)
		}
	}
}

// submitSingleParticipant posts one participant and returns the stored document.
func submitSingleParticipant(ctx context.Context, client *HTTPClient, url string, p Participant) (Participant, error) { //nolint:gocritic // hugeParam: small request value
	resp, err := client.Post(ctx, url, p)
	if err != nil {
		return Participant{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Participant{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return Participant{}, fmt.Errorf("status %d: %s: %s", resp.StatusCode, out.Message, out.Error)
	}
	return out.Participant, nil
}
