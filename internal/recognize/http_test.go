package recognize

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRecognizer_RecognizeImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		payload := new(recognizeRequest)
		require.NoError(t, json.NewDecoder(r.Body).Decode(payload))
		assert.Equal(t, "https://img.example/shot.png", payload.ImageURL)

		json.NewEncoder(w).Encode(&recognizeResponse{Text: "Today\n2 h 15 m"})
	}))
	defer server.Close()

	recognizer := NewHTTPRecognizer(server.URL, "secret", time.Second)
	text, err := recognizer.RecognizeImage(context.Background(), "https://img.example/shot.png")
	require.NoError(t, err)
	assert.Equal(t, "Today\n2 h 15 m", text)
}

func TestHTTPRecognizer_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	recognizer := NewHTTPRecognizer(server.URL, "", time.Second)
	_, err := recognizer.RecognizeImage(context.Background(), "https://img.example/shot.png")
	assert.Error(t, err)
}

func TestHTTPRecognizer_Timeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	recognizer := NewHTTPRecognizer(server.URL, "", 50*time.Millisecond)
	start := time.Now()
	_, err := recognizer.RecognizeImage(context.Background(), "https://img.example/shot.png")
	assert.Error(t, err)
	// the deadline cuts the call, it does not hang
	assert.Less(t, int64(time.Since(start)), int64(2*time.Second))
}

func TestDisabledRecognizer(t *testing.T) {
	_, err := Disabled{}.RecognizeImage(context.Background(), "anything")
	assert.Equal(t, ErrNotConfigured, err)
}
