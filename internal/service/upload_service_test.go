package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUploadConfig(base string) config.Config {
	return config.Config{
		LinkedInAPIBase: base,
		LinkedInVersion: "202411",
	}
}

func TestUploadImage(t *testing.T) {
	var putBody []byte

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "initializeUpload", r.URL.Query().Get("action"))
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.Equal(t, "202411", r.Header.Get("LinkedIn-Version"))
		require.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var body transfer.InitializeUploadBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "urn:li:person:abc", body.InitializeUploadRequest.Owner)

		json.NewEncoder(w).Encode(transfer.ImageUploadResponse{
			Value: transfer.ImageUploadValue{
				UploadURL: srv.URL + "/put/image",
				Image:     "urn:li:image:xyz",
			},
		})
	})
	mux.HandleFunc("/put/image", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		putBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	s := NewUploadService(testUploadConfig(srv.URL))
	urn, err := s.UploadImage(context.Background(), "token-123", "urn:li:person:abc", []byte("png bytes"))
	require.NoError(t, err)
	assert.Equal(t, "urn:li:image:xyz", urn)
	assert.Equal(t, []byte("png bytes"), putBody)
}

func TestUploadDocument(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.DocumentUploadResponse{
			Value: transfer.DocumentUploadValue{
				UploadURL: srv.URL + "/put/doc",
				Document:  "urn:li:document:d1",
			},
		})
	})
	mux.HandleFunc("/put/doc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	})

	s := NewUploadService(testUploadConfig(srv.URL))
	urn, err := s.UploadDocument(context.Background(), "token-123", "urn:li:person:abc", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "urn:li:document:d1", urn)
}

// Part tags must arrive at finalize in instruction order even though each
// part upload answers with its own etag.
func TestUploadVideoPartOrdering(t *testing.T) {
	video := make([]byte, 30)
	for i := range video {
		video[i] = byte(i)
	}

	var mu sync.Mutex
	gotParts := map[int][]byte{}
	var finalized transfer.FinalizeUploadBody
	pollCount := 0

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "initializeUpload":
			var body transfer.InitializeUploadBody
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, int64(30), body.InitializeUploadRequest.FileSizeBytes)

			json.NewEncoder(w).Encode(transfer.VideoUploadResponse{
				Value: transfer.VideoUploadValue{
					Video:       "urn:li:video:v1",
					UploadToken: "tok",
					UploadInstructions: []transfer.UploadInstruction{
						{UploadURL: srv.URL + "/part/0", FirstByte: 0, LastByte: 9},
						{UploadURL: srv.URL + "/part/1", FirstByte: 10, LastByte: 19},
						{UploadURL: srv.URL + "/part/2", FirstByte: 20, LastByte: 29},
					},
				},
			})
		case "finalizeUpload":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&finalized))
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected action %q", r.URL.Query().Get("action"))
		}
	})
	for i := 0; i < 3; i++ {
		i := i
		mux.HandleFunc(fmt.Sprintf("/part/%d", i), func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			gotParts[i] = body
			mu.Unlock()
			w.Header().Set("etag", fmt.Sprintf("etag-%d", i))
			w.WriteHeader(http.StatusOK)
		})
	}
	mux.HandleFunc("/videos/urn:li:video:v1", func(w http.ResponseWriter, r *http.Request) {
		pollCount++
		status := "PROCESSING"
		if pollCount >= 2 {
			status = "AVAILABLE"
		}
		json.NewEncoder(w).Encode(transfer.VideoStatusResponse{ID: "urn:li:video:v1", Status: status})
	})

	s := &uploadService{
		cfg:    testUploadConfig(srv.URL),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	// Shrink the poll interval so the PROCESSING->AVAILABLE transition is
	// exercised without real waiting.
	urn, err := s.uploadVideoWithPoll(context.Background(), "token-123", "urn:li:person:abc", video, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "urn:li:video:v1", urn)

	assert.Equal(t, video[0:10], gotParts[0])
	assert.Equal(t, video[10:20], gotParts[1])
	assert.Equal(t, video[20:30], gotParts[2])

	assert.Equal(t, []string{"etag-0", "etag-1", "etag-2"}, finalized.FinalizeUploadRequest.UploadedPartIds)
	assert.Equal(t, "tok", finalized.FinalizeUploadRequest.UploadToken)
	assert.GreaterOrEqual(t, pollCount, 2)
}

func TestUploadVideoPollDeadline(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "initializeUpload":
			json.NewEncoder(w).Encode(transfer.VideoUploadResponse{
				Value: transfer.VideoUploadValue{
					Video:       "urn:li:video:v2",
					UploadToken: "tok",
					UploadInstructions: []transfer.UploadInstruction{
						{UploadURL: srv.URL + "/part", FirstByte: 0, LastByte: 3},
					},
				},
			})
		case "finalizeUpload":
			w.WriteHeader(http.StatusOK)
		}
	})
	mux.HandleFunc("/part", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("etag", "etag-0")
	})
	mux.HandleFunc("/videos/urn:li:video:v2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.VideoStatusResponse{Status: "PROCESSING"})
	})

	s := &uploadService{
		cfg:    testUploadConfig(srv.URL),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	_, err := s.uploadVideoWithPoll(context.Background(), "token-123", "urn:li:person:abc", []byte("vide"), 5*time.Millisecond, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrVideoProcessingTimeout)
}

func TestUploadImageInitializeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"expired token"}`))
	}))
	defer srv.Close()

	s := NewUploadService(testUploadConfig(srv.URL))
	_, err := s.UploadImage(context.Background(), "bad", "urn:li:person:abc", []byte("png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
