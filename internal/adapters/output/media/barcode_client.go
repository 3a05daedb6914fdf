package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"localledger/configs"
	"localledger/internal/domain"
	"localledger/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure BarcodeClientAdapter implements the port
var _ output.BarcodeDecoder = (*BarcodeClientAdapter)(nil)

// BarcodeClientAdapter struct - Output adapter for the barcode decoding
// service. Calls are bounded by the configured timeout; a timeout is
// reported the same way as any resolver failure so the caller can leave the
// session untouched and let the user retry.
type BarcodeClientAdapter struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

type decodeRequest struct {
	ImageURL string `json:"image_url"`
}

type decodeResponse struct {
	Code string `json:"code"`
}

// NewBarcodeClientAdapter func - Creates new barcode decoder client
func NewBarcodeClientAdapter(config configs.Media) *BarcodeClientAdapter {
	baseURL := strings.TrimSuffix(config.BarcodeURL, "/")

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	logrus.Infof("Barcode client adapter initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return &BarcodeClientAdapter{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
	}
}

// DecodeBarcode func - Resolves an image reference into a barcode value.
// Returns "" with a nil error when the service recognized nothing.
func (a *BarcodeClientAdapter) DecodeBarcode(ctx context.Context, mediaURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(decodeRequest{ImageURL: mediaURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/decode", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logrus.Errorf("Barcode decode request failed: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrResolverUnavailable, err)
	}
	defer resp.Body.Close()

	// 404/422 mean the image carried no decodable barcode - a user-level
	// miss, not an infrastructure failure.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		logrus.Errorf("Barcode decode returned status %d", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", domain.ErrResolverUnavailable, resp.StatusCode)
	}

	var decoded decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResolverUnavailable, err)
	}

	return strings.TrimSpace(decoded.Code), nil
}
