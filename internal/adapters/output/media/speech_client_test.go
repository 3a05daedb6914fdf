package media

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"localledger/configs"
	"localledger/internal/domain"
)

func TestTranscribeSpeechSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transcribe" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(transcribeResponse{Text: " add milk 10 20.50 "})
	}))
	defer server.Close()

	adapter := NewSpeechClientAdapter(configs.Media{SpeechURL: server.URL, Timeout: 5})

	transcript, err := adapter.TranscribeSpeech(context.Background(), "https://media.example/voice1")
	if err != nil {
		t.Fatalf("TranscribeSpeech failed: %v", err)
	}
	if transcript != "add milk 10 20.50" {
		t.Errorf("Expected trimmed transcript, got %q", transcript)
	}
}

func TestTranscribeSpeechNoResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	adapter := NewSpeechClientAdapter(configs.Media{SpeechURL: server.URL, Timeout: 5})

	transcript, err := adapter.TranscribeSpeech(context.Background(), "https://media.example/silence")
	if err != nil {
		t.Errorf("Expected nil error for unrecognized audio, got %v", err)
	}
	if transcript != "" {
		t.Errorf("Expected empty transcript, got %q", transcript)
	}
}

func TestTranscribeSpeechServerErrorIsResolverFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	adapter := NewSpeechClientAdapter(configs.Media{SpeechURL: server.URL, Timeout: 5})

	_, err := adapter.TranscribeSpeech(context.Background(), "https://media.example/voice1")
	if !errors.Is(err, domain.ErrResolverUnavailable) {
		t.Errorf("Expected ErrResolverUnavailable, got %v", err)
	}
}
