// Package mvola is a client for the MVola mobile-money merchant payment API.
//
// The provider uses a two-phase protocol: a submission accepted with 202 only
// means the payment is in flight. The final outcome arrives later on the
// merchant's callback endpoint, keyed by the serverCorrelationId returned
// here. Completion is never reported on the submission response.
package mvola

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	tokenPath       = "/token"
	merchantPayPath = "/mvola/mm/transactions/type/merchantpay/1.0.0/"
)

// Config carries the merchant's gateway credentials and identity. It is
// injected at construction so the client can be tested against a fake
// configuration.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	MerchantMSISDN string
	MerchantName   string
	Currency       string
	Timeout        time.Duration
}

// Client talks to the MVola gateway.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "Ar"
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// AuthError reports a failed token exchange.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway auth: %v", e.Err)
	}
	return fmt.Sprintf("gateway auth: status %d: %s", e.StatusCode, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SubmissionError reports a payment submission the gateway did not accept,
// including network errors and timeouts. A submission that fails this way
// must not leave a pending payment behind.
type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway submission: %v", e.Err)
	}
	return fmt.Sprintf("gateway submission: status %d: %s", e.StatusCode, e.Body)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate exchanges the configured consumer key/secret for a short-lived
// bearer token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "EXT_INT_MVOLA_SCOPE")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if tok.AccessToken == "" {
		return "", &AuthError{Err: fmt.Errorf("token response has no access_token")}
	}
	return tok.AccessToken, nil
}

type party struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type merchantPayRequest struct {
	Amount         string  `json:"amount"`
	Currency       string  `json:"currency"`
	Description    string  `json:"descriptionText,omitempty"`
	RequestDate    string  `json:"requestDate"`
	DebitParty     []party `json:"debitParty"`
	CreditParty    []party `json:"creditParty"`
	TransactionRef string  `json:"requestingOrganisationTransactionReference"`
}

type merchantPayResponse struct {
	Status              string `json:"status"`
	ServerCorrelationID string `json:"serverCorrelationId"`
	NotificationMethod  string `json:"notificationMethod"`
}

// SubmitMerchantPayment initiates a payment pulling amount from the payer's
// wallet to the merchant's. correlationID is a client-generated token that
// lets the gateway deduplicate retried submissions; it is distinct from the
// serverCorrelationId the gateway assigns and returns, which is the reference
// later callbacks carry. Only the provider's 202 accepted-for-processing
// response is a success.
func (c *Client) SubmitMerchantPayment(ctx context.Context, token string, amount float64, payerMSISDN string, correlationID string) (string, error) {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	body := merchantPayRequest{
		Amount:         strconv.FormatFloat(amount, 'f', -1, 64),
		Currency:       c.cfg.Currency,
		Description:    c.cfg.MerchantName,
		RequestDate:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		DebitParty:     []party{{Key: "msisdn", Value: payerMSISDN}},
		CreditParty:    []party{{Key: "msisdn", Value: c.cfg.MerchantMSISDN}},
		TransactionRef: correlationID,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+merchantPayPath, bytes.NewReader(payload))
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CorrelationID", correlationID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &SubmissionError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var accepted merchantPayResponse
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return "", &SubmissionError{Err: fmt.Errorf("decode accept response: %w", err)}
	}
	if accepted.ServerCorrelationID == "" {
		return "", &SubmissionError{Err: fmt.Errorf("accept response has no serverCorrelationId")}
	}
	return accepted.ServerCorrelationID, nil
}
