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

// Compile-time check to ensure SpeechClientAdapter implements the port
var _ output.SpeechTranscriber = (*SpeechClientAdapter)(nil)

// SpeechClientAdapter struct - Output adapter for the speech transcription
// service. Same failure contract as the barcode client: timeouts and
// transport errors leave the session untouched.
type SpeechClientAdapter struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

type transcribeRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// NewSpeechClientAdapter func - Creates new speech transcriber client
func NewSpeechClientAdapter(config configs.Media) *SpeechClientAdapter {
	baseURL := strings.TrimSuffix(config.SpeechURL, "/")

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

	logrus.Infof("Speech client adapter initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return &SpeechClientAdapter{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
	}
}

// TranscribeSpeech func - Resolves an audio reference into an utterance.
// Returns "" with a nil error when nothing was recognized.
func (a *SpeechClientAdapter) TranscribeSpeech(ctx context.Context, mediaURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(transcribeRequest{AudioURL: mediaURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/transcribe", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logrus.Errorf("Speech transcription request failed: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrResolverUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		logrus.Errorf("Speech transcription returned status %d", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", domain.ErrResolverUnavailable, resp.StatusCode)
	}

	var transcript transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrResolverUnavailable, err)
	}

	return strings.TrimSpace(transcript.Text), nil
}
