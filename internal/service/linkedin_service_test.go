package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
	"github.com/Shashank-765/LinkedInAutomation-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func testAccount(t *testing.T, id, userID int64, urn string) *models.LinkedInAccount {
	t.Helper()
	encrypted, err := utils.Encrypt([]byte("access-token"), []byte(testSecretKey))
	require.NoError(t, err)
	return &models.LinkedInAccount{
		ID:          id,
		UserID:      userID,
		URN:         urn,
		AccessToken: encrypted,
	}
}

type publisherFixture struct {
	li LinkedInService
	pm *fakePostMediaRepo
	ma *fakeAssetRepo
}

func newPublisherFixture(t *testing.T, apiBase string) *publisherFixture {
	t.Helper()
	cfg := config.Config{
		LinkedInAPIBase: apiBase,
		LinkedInVersion: "202411",
		SecretKey:       testSecretKey,
	}
	pm := newFakePostMediaRepo()
	ma := newFakeAssetRepo()
	assets := NewAssetService(cfg)
	li := NewLinkedInService(cfg, newFakeAccountRepo(), pm, ma, assets, NewCarouselService(assets), NewUploadService(cfg))
	return &publisherFixture{li: li, pm: pm, ma: ma}
}

func (f *publisherFixture) addAsset(t *testing.T, postID int64, fileType, fileURL string, order int) {
	t.Helper()
	assetID, err := f.ma.Create(context.Background(), nil, &models.MediaAsset{
		UserID:   7,
		FileType: fileType,
		FileURL:  fileURL,
	})
	require.NoError(t, err)
	require.NoError(t, f.pm.Create(context.Background(), nil, &models.PostMedia{
		PostID:       postID,
		AssetID:      assetID,
		DisplayOrder: order,
	}))
}

func TestHandleLinkedInPostNoMedia(t *testing.T) {
	networkHit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		networkHit = true
	}))
	defer srv.Close()

	f := newPublisherFixture(t, srv.URL)
	post := &models.Post{ID: 1, UserID: 7, TargetURN: "urn:li:person:me", Caption: "hello"}

	_, err := f.li.HandleLinkedInPost(context.Background(), post, testAccount(t, 3, 7, "urn:li:person:me"))
	assert.ErrorIs(t, err, ErrNoMedia)
	assert.False(t, networkHit)
}

// A single image takes the image path; two or more take the document
// (carousel) path.
func TestHandleLinkedInPostRouting(t *testing.T) {
	tests := []struct {
		name         string
		imageCount   int
		wantEndpoint string
		wantMediaURN string
	}{
		{name: "single image", imageCount: 1, wantEndpoint: "/images", wantMediaURN: "urn:li:image:i1"},
		{name: "two images", imageCount: 2, wantEndpoint: "/documents", wantMediaURN: "urn:li:document:d1"},
		{name: "five images", imageCount: 5, wantEndpoint: "/documents", wantMediaURN: "urn:li:document:d1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var initHits []string
			var sharedMedia string

			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			defer srv.Close()

			mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
				initHits = append(initHits, "/images")
				json.NewEncoder(w).Encode(transfer.ImageUploadResponse{
					Value: transfer.ImageUploadValue{UploadURL: srv.URL + "/put", Image: "urn:li:image:i1"},
				})
			})
			mux.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
				initHits = append(initHits, "/documents")
				json.NewEncoder(w).Encode(transfer.DocumentUploadResponse{
					Value: transfer.DocumentUploadValue{UploadURL: srv.URL + "/put", Document: "urn:li:document:d1"},
				})
			})
			mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})
			mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
				var body transfer.CreatePostRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				sharedMedia = body.Content.Media.ID
				assert.Equal(t, "PUBLIC", body.Visibility)
				assert.Equal(t, "MAIN_FEED", body.Distribution.FeedDistribution)
				assert.Equal(t, "PUBLISHED", body.LifecycleState)
				w.Header().Set("x-linkedin-id", "urn:li:share:42")
				w.WriteHeader(http.StatusCreated)
			})

			f := newPublisherFixture(t, srv.URL)
			post := &models.Post{ID: 1, UserID: 7, TargetURN: "urn:li:person:me", Caption: "hi"}
			for i := 0; i < tt.imageCount; i++ {
				f.addAsset(t, post.ID, "image/png", pngDataURI(t, 200, 200), i)
			}

			remoteID, err := f.li.HandleLinkedInPost(context.Background(), post, testAccount(t, 3, 7, "urn:li:person:me"))
			require.NoError(t, err)
			assert.Equal(t, "urn:li:share:42", remoteID)
			assert.Equal(t, []string{tt.wantEndpoint}, initHits)
			assert.Equal(t, tt.wantMediaURN, sharedMedia)
		})
	}
}

// A post with no images and a video asset takes the multipart video path,
// and the bytes go up raw: video sources are never run through the image
// normalizer.
func TestHandleLinkedInPostVideoRouting(t *testing.T) {
	videoBytes := []byte("raw mp4 payload")
	videoSource := "data:video/mp4;base64," + base64.StdEncoding.EncodeToString(videoBytes)

	var initHits []string
	var putBody []byte
	var sharedMedia string

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("action") {
		case "initializeUpload":
			initHits = append(initHits, "/videos")
			json.NewEncoder(w).Encode(transfer.VideoUploadResponse{
				Value: transfer.VideoUploadValue{
					Video:       "urn:li:video:v9",
					UploadToken: "tok",
					UploadInstructions: []transfer.UploadInstruction{
						{UploadURL: srv.URL + "/put", FirstByte: 0, LastByte: int64(len(videoBytes)) - 1},
					},
				},
			})
		case "finalizeUpload":
			w.WriteHeader(http.StatusOK)
		}
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		putBody, _ = io.ReadAll(r.Body)
		w.Header().Set("etag", "etag-0")
	})
	mux.HandleFunc("/videos/urn:li:video:v9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.VideoStatusResponse{ID: "urn:li:video:v9", Status: "AVAILABLE"})
	})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		var body transfer.CreatePostRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sharedMedia = body.Content.Media.ID
		w.Header().Set("x-linkedin-id", "urn:li:share:55")
		w.WriteHeader(http.StatusCreated)
	})

	f := newPublisherFixture(t, srv.URL)
	post := &models.Post{ID: 1, UserID: 7, TargetURN: "urn:li:person:me", Caption: "demo reel"}
	f.addAsset(t, post.ID, "video/mp4", videoSource, 0)

	remoteID, err := f.li.HandleLinkedInPost(context.Background(), post, testAccount(t, 3, 7, "urn:li:person:me"))
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:55", remoteID)
	assert.Equal(t, []string{"/videos"}, initHits)
	assert.Equal(t, "urn:li:video:v9", sharedMedia)
	assert.Equal(t, videoBytes, putBody)
}

func TestCreateShareHeaderFallback(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.ImageUploadResponse{
			Value: transfer.ImageUploadValue{UploadURL: srv.URL + "/put", Image: "urn:li:image:i1"},
		})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		// Older gateway responses carry only the restli header.
		w.Header().Set("x-restli-id", "urn:li:share:77")
		w.WriteHeader(http.StatusCreated)
	})

	f := newPublisherFixture(t, srv.URL)
	post := &models.Post{ID: 1, UserID: 7, Caption: "hi"}
	f.addAsset(t, post.ID, "image/png", pngDataURI(t, 100, 100), 0)

	remoteID, err := f.li.HandleLinkedInPost(context.Background(), post, testAccount(t, 3, 7, "urn:li:person:me"))
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:77", remoteID)
}

func TestCreateShareSanitizesCommentary(t *testing.T) {
	var commentary string

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.ImageUploadResponse{
			Value: transfer.ImageUploadValue{UploadURL: srv.URL + "/put", Image: "urn:li:image:i1"},
		})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		var body transfer.CreatePostRequest
		json.NewDecoder(r.Body).Decode(&body)
		commentary = body.Commentary
		w.Header().Set("x-linkedin-id", "urn:li:share:1")
	})

	f := newPublisherFixture(t, srv.URL)
	post := &models.Post{ID: 1, UserID: 7, Caption: "launch (finally) day"}
	f.addAsset(t, post.ID, "image/png", pngDataURI(t, 100, 100), 0)

	_, err := f.li.HandleLinkedInPost(context.Background(), post, testAccount(t, 3, 7, "urn:li:person:me"))
	require.NoError(t, err)
	assert.Equal(t, "launch finally day", commentary)
}

func TestCreateShareFailureCarriesBody(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/images", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transfer.ImageUploadResponse{
			Value: transfer.ImageUploadValue{UploadURL: srv.URL + "/put", Image: "urn:li:image:i1"},
		})
	})
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"duplicate share"}`))
	})

	f := newPublisherFixture(t, srv.URL)
	post := &models.Post{ID: 1, UserID: 7, Caption: "hi"}
	f.addAsset(t, post.ID, "image/png", pngDataURI(t, 100, 100), 0)

	_, err := f.li.HandleLinkedInPost(context.Background(), post, testAccount(t, 3, 7, "urn:li:person:me"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deployment failed")
	assert.Contains(t, err.Error(), "duplicate share")
}
