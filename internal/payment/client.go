// Package payment is the mobile-wallet preauthorization gateway client.
// Every call is logged to the payment audit table; a capture that fails
// after a successful preauthorization is compensated with a cancel so no
// funds stay reserved.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const successCode = "2001"

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type Config struct {
	APIURL      string
	APIKey      string
	APIUserID   string
	MerchantUID string
	Timeout     time.Duration
	MaxRetries  int
	Backoff     time.Duration
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

type Client struct {
	apiURL      string
	apiKey      string
	apiUserID   string
	merchantUID string
	httpClient  *http.Client
	maxRetries  int
	backoff     time.Duration
	logs        LogStore
	log         zerolog.Logger
}

func NewClient(cfg Config, logs LogStore) (*Client, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, errors.New("payment: API URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
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
		backoff = 500 * time.Millisecond
	}

	return &Client{
		apiURL:      cfg.APIURL,
		apiKey:      cfg.APIKey,
		apiUserID:   cfg.APIUserID,
		merchantUID: cfg.MerchantUID,
		httpClient:  httpClient,
		maxRetries:  maxRetries,
		backoff:     backoff,
		logs:        logs,
		log:         cfg.Logger,
	}, nil
}

type gatewayRequest struct {
	SchemaVersion string         `json:"schemaVersion"`
	RequestID     string         `json:"requestId"`
	Timestamp     string         `json:"timestamp"`
	ChannelName   string         `json:"channelName"`
	ServiceName   string         `json:"serviceName"`
	ServiceParams map[string]any `json:"serviceParams"`
}

type gatewayResponse struct {
	ResponseCode string `json:"responseCode"`
	ResponseMsg  string `json:"responseMsg"`
	Params       struct {
		TransactionID string `json:"transactionId"`
		PreauthCode   string `json:"preauthCode"`
		CashierURL    string `json:"cashierURL"`
	} `json:"params"`
}

// InitiatePreauthorization reserves funds on the payer's wallet.
func (c *Client) InitiatePreauthorization(ctx context.Context, patientID, mobile string, amount float64, appointmentID string) (*PreauthResult, error) {
	req := c.newRequest("INIT", "API_PREAUTHORIZE", map[string]any{
		"merchantUid":   c.merchantUID,
		"apiUserId":     c.apiUserID,
		"apiKey":        c.apiKey,
		"paymentMethod": "MWALLET_ACCOUNT",
		"payerInfo": map[string]any{
			"accountNo": cleanMobile(mobile),
		},
		"transactionInfo": map[string]any{
			"referenceId": patientID + "-" + shortRef(),
			"invoiceId":   patientID + "-" + shortRef(),
			"amount":      fmt.Sprintf("%.2f", amount),
			"currency":    "USD",
			"description": "Appointment Payment for Patient " + patientID,
		},
	})

	// A fresh preauthorization is safe to retry on transport failures: no
	// response means no confirmed hold.
	resp, err := c.call(ctx, patientID, appointmentID, RequestPreauthorize, req, true)
	if err != nil {
		return nil, err
	}

	return &PreauthResult{
		TransactionID: resp.Params.TransactionID,
		PreauthCode:   resp.Params.PreauthCode,
		CashierURL:    resp.Params.CashierURL,
	}, nil
}

// CommitPreauthorization captures reserved funds. Never retried: a lost
// response does not prove the charge failed, and a second capture would
// double-charge.
func (c *Client) CommitPreauthorization(ctx context.Context, patientID, transactionID, mobile, appointmentID string) error {
	req := c.newRequest("COMMIT", "API_PREAUTHORIZE_COMMIT", map[string]any{
		"merchantUid":   c.merchantUID,
		"apiUserId":     c.apiUserID,
		"apiKey":        c.apiKey,
		"paymentMethod": "MWALLET_ACCOUNT",
		"transactionId": transactionID,
		"referenceId":   transactionID + "-commit",
		"description":   "Capture preauth for transaction " + transactionID,
		"payerInfo": map[string]any{
			"accountNo": cleanMobile(mobile),
		},
	})

	_, err := c.call(ctx, patientID, appointmentID, RequestCapture, req, false)
	return err
}

// CancelPreauthorization releases a reserved hold.
func (c *Client) CancelPreauthorization(ctx context.Context, patientID, transactionID, mobile, appointmentID string) error {
	req := c.newRequest("CANCEL", "API_PREAUTHORIZE_CANCEL", map[string]any{
		"merchantUid":   c.merchantUID,
		"apiUserId":     c.apiUserID,
		"apiKey":        c.apiKey,
		"paymentMethod": "MWALLET_ACCOUNT",
		"transactionId": transactionID,
		"referenceId":   transactionID + "-cancel",
		"description":   "Cancel preauth for transaction " + transactionID,
		"payerInfo": map[string]any{
			"accountNo": cleanMobile(mobile),
		},
	})

	_, err := c.call(ctx, patientID, appointmentID, RequestCancel, req, true)
	return err
}

// Charge runs the full preauthorize-then-capture flow. If the capture fails
// the hold is cancelled so the payer's funds are released.
func (c *Client) Charge(ctx context.Context, patientID, mobile string, amount float64, appointmentID string) (string, error) {
	preauth, err := c.InitiatePreauthorization(ctx, patientID, mobile, amount, appointmentID)
	if err != nil {
		return "", err
	}

	if err := c.CommitPreauthorization(ctx, patientID, preauth.TransactionID, mobile, appointmentID); err != nil {
		if cancelErr := c.CancelPreauthorization(ctx, patientID, preauth.TransactionID, mobile, appointmentID); cancelErr != nil {
			c.log.Error().Err(cancelErr).
				Str("transaction", preauth.TransactionID).
				Msg("compensating cancel failed after capture error")
		}
		return "", err
	}

	return preauth.TransactionID, nil
}

func (c *Client) call(ctx context.Context, patientID, appointmentID, requestType string, req gatewayRequest, allowRetry bool) (*gatewayResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal gateway request: %w", err)
	}

	maxAttempts := 1
	if allowRetry {
		maxAttempts = c.maxRetries + 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build gateway request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if !transient(err) || attempt == maxAttempts-1 {
				break
			}
			c.log.Warn().Err(err).Int("attempt", attempt+1).Str("request_type", requestType).Msg("payment gateway call failed, retrying")
			if err := c.sleep(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		var resp gatewayResponse
		decodeErr := json.NewDecoder(httpResp.Body).Decode(&resp)
		httpResp.Body.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("decode gateway response: %w", decodeErr)
		}

		c.logCall(ctx, patientID, appointmentID, requestType, payload, resp)

		if resp.ResponseCode != successCode {
			approvers, details := parseApprovers(resp.ResponseMsg)
			return nil, &GatewayError{
				Code:      resp.ResponseCode,
				Message:   resp.ResponseMsg,
				Approvers: approvers,
				Details:   details,
			}
		}

		return &resp, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, lastErr)
}

func (c *Client) logCall(ctx context.Context, patientID, appointmentID, requestType string, payload []byte, resp gatewayResponse) {
	if c.logs == nil {
		return
	}

	respData, err := json.Marshal(resp)
	if err != nil {
		respData = nil
	}

	entry := LogEntry{
		PatientID:       patientID,
		AppointmentID:   appointmentID,
		RequestType:     requestType,
		RequestPayload:  payload,
		ResponsePayload: respData,
		TransactionID:   resp.Params.TransactionID,
		CreatedAt:       time.Now().UTC(),
	}

	if err := c.logs.Insert(ctx, entry); err != nil {
		c.log.Error().Err(err).Str("request_type", requestType).Msg("failed to record payment log entry")
	}
}

func (c *Client) newRequest(prefix, serviceName string, params map[string]any) gatewayRequest {
	now := time.Now()
	return gatewayRequest{
		SchemaVersion: "1.0",
		RequestID:     fmt.Sprintf("%s-%s-%s", prefix, now.Format("060102150405"), shortRef()),
		Timestamp:     now.Format("2006-01-02T15:04:05"),
		ChannelName:   "WEB",
		ServiceName:   serviceName,
		ServiceParams: params,
	}
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

func transient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return !errors.Is(err, context.Canceled)
}

// cleanMobile reduces a payer number to the local wallet account format.
func cleanMobile(mobile string) string {
	m := strings.TrimPrefix(mobile, "+252")
	m = strings.TrimPrefix(m, "252")
	return strings.TrimLeft(m, "0")
}

func shortRef() string {
	return strings.ToUpper(uuid.NewString()[:6])
}
