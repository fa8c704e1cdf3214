package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
)

const (
	uploadPhaseTimeout = 60 * time.Second

	videoPollInterval = 5 * time.Second
	videoPollDeadline = 3 * time.Minute
)

// UploadService drives the platform's three-phase media upload: initialize,
// PUT bytes, finalize (video only). Each phase has its own timeout and a
// failed phase aborts the whole attempt; retry policy lives with the caller.
type UploadService interface {
	UploadImage(ctx context.Context, accessToken, ownerURN string, image []byte) (string, error)
	UploadDocument(ctx context.Context, accessToken, ownerURN string, document []byte) (string, error)
	UploadVideo(ctx context.Context, accessToken, ownerURN string, video []byte) (string, error)
}

type uploadService struct {
	cfg    config.Config
	client *http.Client
}

func NewUploadService(cfg config.Config) UploadService {
	return &uploadService{
		cfg:    cfg,
		client: &http.Client{Timeout: uploadPhaseTimeout},
	}
}

func (s *uploadService) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("LinkedIn-Version", s.cfg.LinkedInVersion)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("Content-Type", "application/json")
}

func (s *uploadService) initializeUpload(ctx context.Context, accessToken, endpoint string, reqBody transfer.InitializeUploadBody, out interface{}) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	url := fmt.Sprintf("%s/%s?action=initializeUpload", s.cfg.LinkedInAPIBase, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	s.setHeaders(req, accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("initialize upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("initialize upload returned %d: %s", resp.StatusCode, string(body)))
		return fmt.Errorf("initialize upload returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode initialize upload response: %w", err)
	}

	return nil
}

// putBytes uploads one blob (or one part range) to a pre-signed URL and
// returns the etag response header the finalize phase needs.
func (s *uploadService) putBytes(ctx context.Context, accessToken, uploadURL, contentType string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("byte upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("byte upload returned %d: %s", resp.StatusCode, string(body)))
		return "", fmt.Errorf("byte upload returned status %d", resp.StatusCode)
	}

	return resp.Header.Get("etag"), nil
}

func (s *uploadService) UploadImage(ctx context.Context, accessToken, ownerURN string, image []byte) (string, error) {
	reqBody := transfer.InitializeUploadBody{
		InitializeUploadRequest: transfer.InitializeUploadRequest{Owner: ownerURN},
	}

	var initResp transfer.ImageUploadResponse
	if err := s.initializeUpload(ctx, accessToken, "images", reqBody, &initResp); err != nil {
		return "", err
	}

	if _, err := s.putBytes(ctx, accessToken, initResp.Value.UploadURL, "image/png", image); err != nil {
		return "", err
	}

	return initResp.Value.Image, nil
}

func (s *uploadService) UploadDocument(ctx context.Context, accessToken, ownerURN string, document []byte) (string, error) {
	reqBody := transfer.InitializeUploadBody{
		InitializeUploadRequest: transfer.InitializeUploadRequest{Owner: ownerURN},
	}

	var initResp transfer.DocumentUploadResponse
	if err := s.initializeUpload(ctx, accessToken, "documents", reqBody, &initResp); err != nil {
		return "", err
	}

	if _, err := s.putBytes(ctx, accessToken, initResp.Value.UploadURL, "application/pdf", document); err != nil {
		return "", err
	}

	return initResp.Value.Document, nil
}

func (s *uploadService) UploadVideo(ctx context.Context, accessToken, ownerURN string, video []byte) (string, error) {
	return s.uploadVideoWithPoll(ctx, accessToken, ownerURN, video, videoPollInterval, videoPollDeadline)
}

func (s *uploadService) uploadVideoWithPoll(ctx context.Context, accessToken, ownerURN string, video []byte, pollInterval, pollDeadline time.Duration) (string, error) {
	reqBody := transfer.InitializeUploadBody{
		InitializeUploadRequest: transfer.InitializeUploadRequest{
			Owner:         ownerURN,
			FileSizeBytes: int64(len(video)),
		},
	}

	var initResp transfer.VideoUploadResponse
	if err := s.initializeUpload(ctx, accessToken, "videos", reqBody, &initResp); err != nil {
		return "", err
	}

	if len(initResp.Value.UploadInstructions) == 0 {
		err := errors.New("video initialize returned no upload instructions")
		slog.Info(err.Error())
		return "", err
	}

	// Part tags must be finalized in instruction order, not completion
	// order. Index by instruction position to keep that invariant even if
	// this loop is ever parallelized.
	partIDs := make([]string, len(initResp.Value.UploadInstructions))
	for i, instr := range initResp.Value.UploadInstructions {
		if instr.FirstByte < 0 || instr.LastByte >= int64(len(video)) || instr.FirstByte > instr.LastByte {
			return "", fmt.Errorf("upload instruction %d has invalid byte range [%d, %d]", i, instr.FirstByte, instr.LastByte)
		}

		part := video[instr.FirstByte : instr.LastByte+1]
		etag, err := s.putBytes(ctx, accessToken, instr.UploadURL, "application/octet-stream", part)
		if err != nil {
			return "", fmt.Errorf("video part %d: %w", i, err)
		}
		if etag == "" {
			return "", fmt.Errorf("video part %d: upload response carried no etag", i)
		}
		partIDs[i] = etag
	}

	if err := s.finalizeVideo(ctx, accessToken, initResp.Value.Video, initResp.Value.UploadToken, partIDs); err != nil {
		return "", err
	}

	if err := s.waitVideoReady(ctx, accessToken, initResp.Value.Video, pollInterval, pollDeadline); err != nil {
		return "", err
	}

	return initResp.Value.Video, nil
}

func (s *uploadService) finalizeVideo(ctx context.Context, accessToken, videoURN, uploadToken string, partIDs []string) error {
	reqBody := transfer.FinalizeUploadBody{
		FinalizeUploadRequest: transfer.FinalizeUploadRequest{
			Video:           videoURN,
			UploadToken:     uploadToken,
			UploadedPartIds: partIDs,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	url := fmt.Sprintf("%s/videos?action=finalizeUpload", s.cfg.LinkedInAPIBase)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	s.setHeaders(req, accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("finalize upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("finalize upload returned %d: %s", resp.StatusCode, string(body)))
		return fmt.Errorf("finalize upload returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// waitVideoReady polls until the platform reports the video AVAILABLE. The
// deadline is wall clock; hitting it returns ErrVideoProcessingTimeout, which
// is never success even if processing would have finished moments later.
func (s *uploadService) waitVideoReady(ctx context.Context, accessToken, videoURN string, pollInterval, pollDeadline time.Duration) error {
	deadline := time.Now().Add(pollDeadline)

	for {
		status, err := s.videoStatus(ctx, accessToken, videoURN)
		if err != nil {
			return err
		}
		if status == "AVAILABLE" {
			return nil
		}

		if time.Now().After(deadline) {
			slog.Info(fmt.Sprintf("video %s not ready after %s, last status %s", videoURN, pollDeadline, status))
			return fmt.Errorf("%w: last status %s", ErrVideoProcessingTimeout, status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (s *uploadService) videoStatus(ctx context.Context, accessToken, videoURN string) (string, error) {
	url := fmt.Sprintf("%s/videos/%s", s.cfg.LinkedInAPIBase, videoURN)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	s.setHeaders(req, accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("video status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("video status returned %d: %s", resp.StatusCode, string(body)))
		return "", fmt.Errorf("video status returned status %d", resp.StatusCode)
	}

	var statusResp transfer.VideoStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("failed to decode video status response: %w", err)
	}

	return statusResp.Status, nil
}
