// Package sms is the outbound SMS gateway client. The gateway hands out
// short-lived bearer tokens from a /token endpoint; tokens are cached in
// redis so concurrent API processes share them.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	tokenCacheKey = "sms:access_token"
	tokenCacheTTL = 50 * time.Second
)

var ErrSendFailed = errors.New("sms gateway send failed")

// sendState tracks a message through the retry loop. Once a request has
// reached the provider with a 200 we never retry, even if the body looks
// wrong: the message may already be on its way and a retry would duplicate
// it.
type sendState int

const (
	statePending sendState = iota
	stateSent
	stateConfirmed
	stateFailed
)

func (s sendState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateSent:
		return "sent"
	case stateConfirmed:
		return "confirmed"
	default:
		return "failed"
	}
}

type Config struct {
	BaseURL    string
	Username   string
	Password   string
	SenderID   string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	baseURL    string
	username   string
	password   string
	senderID   string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	rdb        *redis.Client
	log        zerolog.Logger
}

func NewClient(cfg Config, rdb *redis.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("sms: base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if maxRetries == 0 {
		maxRetries = 2
	}

	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		senderID:   cfg.SenderID,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		rdb:        rdb,
		log:        cfg.Logger,
	}, nil
}

type sendPayload struct {
	SenderID string `json:"senderid"`
	RefID    string `json:"refid"`
	Mobile   string `json:"mobile"`
	Message  string `json:"message"`
	Validity int    `json:"validity"`
}

type sendResponse struct {
	ResponseCode    string `json:"ResponseCode"`
	ResponseMessage string `json:"ResponseMessage"`
}

// Send delivers one SMS, retrying clear failures with capped exponential
// backoff. Confirmation is the gateway's ResponseCode "200".
func (c *Client) Send(ctx context.Context, mobile, message string) error {
	token, err := c.validToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	body, err := json.Marshal(sendPayload{
		SenderID: c.senderID,
		RefID:    "0",
		Mobile:   mobile,
		Message:  message,
	})
	if err != nil {
		return fmt.Errorf("marshal sms payload: %w", err)
	}

	state := statePending
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/SendSMS", strings.NewReader(string(body)))
		if err != nil {
			return fmt.Errorf("build sms request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !retryable(err) || attempt == c.maxRetries {
				return fmt.Errorf("%w: %v", ErrSendFailed, err)
			}
			state = stateFailed
			lastErr = err
			c.log.Warn().Err(err).Int("attempt", attempt+1).Str("mobile", mobile).Msg("sms send attempt failed")
			if err := c.sleep(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		var gw sendResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&gw)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			if decodeErr == nil && gw.ResponseCode == "200" {
				state = stateConfirmed
				return nil
			}
			// Reached the provider but the body is unexpected. Treat as sent
			// and stop: retrying here risks a duplicate SMS.
			state = stateSent
			c.log.Warn().
				Str("mobile", mobile).
				Str("response_code", gw.ResponseCode).
				Msg("sms gateway returned 200 with unexpected body, not retrying")
			return nil
		}

		lastErr = fmt.Errorf("gateway status %d", resp.StatusCode)
		if attempt == c.maxRetries {
			break
		}
		state = stateFailed
		c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Str("mobile", mobile).Msg("sms send attempt failed")
		if err := c.sleep(ctx, attempt); err != nil {
			return err
		}
	}

	state = stateFailed
	c.log.Error().Stringer("state", state).Str("mobile", mobile).Msg("sms send exhausted retries")
	return fmt.Errorf("%w after %d attempts: %v", ErrSendFailed, c.maxRetries+1, lastErr)
}

// validToken returns the cached gateway token or fetches a fresh one.
func (c *Client) validToken(ctx context.Context) (string, error) {
	if c.rdb != nil {
		token, err := c.rdb.Get(ctx, tokenCacheKey).Result()
		if err == nil && token != "" {
			return token, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Msg("sms token cache read failed, fetching fresh token")
		}
	}

	return c.fetchToken(ctx)
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if data.AccessToken == "" {
		return "", errors.New("token endpoint returned empty access_token")
	}

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, tokenCacheKey, data.AccessToken, tokenCacheTTL).Err(); err != nil {
			c.log.Warn().Err(err).Msg("sms token cache write failed")
		}
	}

	return data.AccessToken, nil
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<attempt)
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return !errors.Is(err, context.Canceled)
}
