// Package modsync mirrors applied punishments to an external moderation
// API so out-of-game tooling stays in sync. Synchronization is best-effort:
// failures are traced and never block the moderation pipeline.
package modsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/smell-of-curry/pokebedrock-guard/guard/moderation"
)

const (
	maxRetries     = 3
	retryDelay     = 300 * time.Millisecond
	requestTimeout = 5 * time.Second
)

// infliction is the wire form of a punishment sent to the remote API.
type infliction struct {
	Type          string `json:"type"`
	DateInflicted int64  `json:"date_inflicted"`
	ExpiryDate    int64  `json:"expiry_date,omitempty"`
	Reason        string `json:"reason"`
	Prosecutor    string `json:"prosecutor"`
}

// request ...
type request struct {
	XUID       string     `json:"xuid"`
	Name       string     `json:"name"`
	Infliction infliction `json:"infliction"`
}

// Service posts applied punishments to the remote moderation API. A nil
// *Service is valid and disables synchronization.
type Service struct {
	url string
	key string

	client *http.Client
	log    *slog.Logger
}

// NewService creates a sync service, or nil when no URL is configured.
func NewService(log *slog.Logger, url, key string) *Service {
	if url == "" {
		return nil
	}
	return &Service{
		url: url,
		key: key,
		client: &http.Client{
			Timeout: requestTimeout,
		},
		log: log,
	}
}

// PushBan mirrors a ban record to the remote API in the background.
func (s *Service) PushBan(record moderation.BanRecord) {
	if s == nil {
		return
	}

	req := request{
		XUID: record.TargetXUID,
		Name: record.TargetName,
		Infliction: infliction{
			Type:          "BANNED",
			DateInflicted: record.Timestamp,
			Reason:        record.Reason,
			Prosecutor:    record.BannedBy,
		},
	}
	if record.UnbanTime != moderation.Permanent {
		req.Infliction.ExpiryDate = record.UnbanTime
	}

	go func() {
		if err := s.post("/addInfliction", req); err != nil {
			s.log.Error("modsync: failed to mirror ban", "target", record.TargetName, "error", err)
		}
	}()
}

// PushUnban mirrors the removal of a ban to the remote API in the
// background.
func (s *Service) PushUnban(record moderation.BanRecord) {
	if s == nil {
		return
	}

	req := request{
		XUID: record.TargetXUID,
		Name: record.TargetName,
		Infliction: infliction{
			Type:       "BANNED",
			Reason:     record.Reason,
			Prosecutor: record.BannedBy,
		},
	}

	go func() {
		if err := s.post("/removeInfliction", req); err != nil {
			s.log.Error("modsync: failed to mirror unban", "target", record.TargetName, "error", err)
		}
	}()
}

// post sends a request to the API, retrying temporary failures.
func (s *Service) post(path string, req request) error {
	rawRequest, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+path, bytes.NewBuffer(rawRequest))
		if err != nil {
			cancel()
			return fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("authorization", s.key)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(httpReq)
		cancel()
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if isTemporaryError(err) {
				continue
			}
			return lastErr
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusNoContent:
			return nil
		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited")
			time.Sleep(time.Duration(attempt+1) * retryDelay)
			continue
		default:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
	return lastErr
}

// isTemporaryError checks if an error is temporary and can be retried.
func isTemporaryError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
