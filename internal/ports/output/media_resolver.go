package output

import "context"

// BarcodeDecoder interface - Output port
// Resolves a fetchable image reference into a decoded barcode value.
// An empty string with a nil error means nothing could be decoded; an error
// means the resolver itself failed or timed out. Either way the caller must
// not advance or end any session - the user may retry the same turn.
type BarcodeDecoder interface {
	DecodeBarcode(ctx context.Context, mediaURL string) (string, error)
}

// SpeechTranscriber interface - Output port
// Resolves a fetchable audio reference into an utterance. Same failure
// contract as BarcodeDecoder.
type SpeechTranscriber interface {
	TranscribeSpeech(ctx context.Context, mediaURL string) (string, error)
}
