package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"collabriss.backend/internal/config"
	"collabriss.backend/internal/domain/entities"
	domainerrors "collabriss.backend/internal/domain/errors"
	"collabriss.backend/pkg/logger"
)

const maxResponseBytes = 1 << 20

// FlutterwaveClient verifies charges against the Flutterwave v3 API.
type FlutterwaveClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewFlutterwaveClient(cfg config.PaymentConfig) *FlutterwaveClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &FlutterwaveClient{
		baseURL:   strings.TrimRight(cfg.GatewayBaseURL, "/"),
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		ID       json.Number     `json:"id"`
		TxRef    string          `json:"tx_ref"`
		Status   string          `json:"status"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	} `json:"data"`
}

// VerifyTransaction fetches the transaction. Unknown ids map to ErrNotFound;
// transport and 5xx failures wrap ErrGatewayUnavailable.
func (c *FlutterwaveClient) VerifyTransaction(ctx context.Context, transactionID string) (*entities.GatewayTransaction, error) {
	endpoint := c.baseURL + "/v3/transactions/" + url.PathEscape(transactionID) + "/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domainerrors.ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domainerrors.ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", domainerrors.ErrGatewayUnavailable, resp.StatusCode)
	case rejectsTransaction(resp.StatusCode, body):
		logger.Warn(ctx, "Gateway does not know transaction",
			zap.Int("status", resp.StatusCode),
			zap.String("transactionId", transactionID),
		)
		return nil, domainerrors.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		logger.Warn(ctx, "Gateway rejected verify request",
			zap.Int("status", resp.StatusCode),
			zap.String("transactionId", transactionID),
		)
		return nil, fmt.Errorf("%w: status %d", domainerrors.ErrGatewayUnavailable, resp.StatusCode)
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	if parsed.Status != "success" || parsed.Data == nil {
		return nil, domainerrors.ErrNotFound
	}

	return &entities.GatewayTransaction{
		ID:       parsed.Data.ID.String(),
		TxRef:    parsed.Data.TxRef,
		Status:   parsed.Data.Status,
		Amount:   parsed.Data.Amount,
		Currency: parsed.Data.Currency,
	}, nil
}

// rejectsTransaction reports a 4xx answer with an error envelope, which is how
// the gateway answers an unknown or invalid transaction id. Auth and rate-limit
// statuses stay retryable.
func rejectsTransaction(status int, body []byte) bool {
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		return false
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	var envelope verifyResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	return envelope.Status == "error"
}
