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
	"net/url"
	"strings"
	"time"

	config "github.com/Shashank-765/LinkedInAutomation-sub000/configs"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/models"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/repository"
	"github.com/Shashank-765/LinkedInAutomation-sub000/internal/transfer"
	"github.com/Shashank-765/LinkedInAutomation-sub000/pkg/utils"
	"golang.org/x/oauth2"
)

const (
	linkedinAuthURL     = "https://www.linkedin.com/oauth/v2/authorization"
	linkedinTokenURL    = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinUserInfoURL = "https://api.linkedin.com/v2/userinfo"
)

type LinkedInService interface {
	AuthURL(state string) string
	LinkedInCallback(ctx context.Context, code string, userID int64) error
	RefreshLinkedInToken(ctx context.Context, acc *models.LinkedInAccount) error
	HandleLinkedInPost(ctx context.Context, post *models.Post, acc *models.LinkedInAccount) (string, error)
	FetchEngagement(ctx context.Context, acc *models.LinkedInAccount, remoteID string) (*transfer.SocialActionsSummary, error)
}

type linkedinService struct {
	cfg      config.Config
	la       repository.LinkedInAccountRepository
	pm       repository.PostMediaRepository
	ma       repository.MediaAssetRepository
	assets   AssetService
	carousel CarouselService
	uploads  UploadService
	client   *http.Client
}

func NewLinkedInService(
	cfg config.Config,
	la repository.LinkedInAccountRepository,
	pm repository.PostMediaRepository,
	ma repository.MediaAssetRepository,
	assets AssetService,
	carousel CarouselService,
	uploads UploadService) LinkedInService {
	return &linkedinService{
		cfg:      cfg,
		la:       la,
		pm:       pm,
		ma:       ma,
		assets:   assets,
		carousel: carousel,
		uploads:  uploads,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *linkedinService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.LinkedInClientID,
		ClientSecret: s.cfg.LinkedInClientSecret,
		RedirectURL:  s.cfg.LinkedInRedirectURI,
		Scopes:       []string{"openid", "profile", "email", "w_member_social"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  linkedinAuthURL,
			TokenURL: linkedinTokenURL,
		},
	}
}

func (s *linkedinService) AuthURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state)
}

func (s *linkedinService) LinkedInCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	userInfo, err := s.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	refreshToken := token.RefreshToken
	encryptedRefreshToken := ""
	if refreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(refreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	accountInfo := &models.LinkedInAccount{
		UserID:         userID,
		URN:            "urn:li:person:" + userInfo.Sub,
		FirstName:      userInfo.GivenName,
		LastName:       userInfo.FamilyName,
		ProfilePicture: userInfo.Picture,
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TokenExpiresAt: token.Expiry,
	}

	_, err = s.la.Create(ctx, nil, accountInfo)
	if err != nil {
		return err
	}

	return nil
}

func (s *linkedinService) fetchUserInfo(ctx context.Context, accessToken string) (*transfer.LinkedInUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedinUserInfoURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("userinfo endpoint returned non-200 status")
		return nil, errors.New("userinfo endpoint returned non-200 status")
	}

	var userInfo transfer.LinkedInUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	return &userInfo, nil
}

func (s *linkedinService) RefreshLinkedInToken(ctx context.Context, acc *models.LinkedInAccount) error {
	if acc.RefreshToken == "" {
		err := errors.New("account has no refresh token")
		slog.Info(err.Error())
		return err
	}

	decryptedRefreshToken, err := utils.Decrypt(acc.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", decryptedRefreshToken)
	data.Set("client_id", s.cfg.LinkedInClientID)
	data.Set("client_secret", s.cfg.LinkedInClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedinTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("token refresh returned %d: %s", resp.StatusCode, string(body)))
		return fmt.Errorf("token refresh returned status %d", resp.StatusCode)
	}

	var tokenResponse transfer.LinkedInTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken := ""
	if tokenResponse.RefreshToken != "" {
		encryptedRefreshToken, err = utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	updated := models.LinkedInAccount{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TokenExpiresAt: GetExpiresAt(tokenResponse.ExpiresIn),
	}

	return s.la.SetToken(ctx, acc.UserID, acc.AccessToken, &updated)
}

// HandleLinkedInPost uploads the post's media and creates the share, returning
// the platform's id for the new post. It never touches post status; the
// caller owns the state transitions.
func (s *linkedinService) HandleLinkedInPost(ctx context.Context, post *models.Post, acc *models.LinkedInAccount) (string, error) {
	decryptedAccessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	mediaURN, err := s.uploadMedia(ctx, decryptedAccessToken, acc.URN, post)
	if err != nil {
		return "", err
	}

	return s.createShare(ctx, decryptedAccessToken, acc.URN, post.Caption, mediaURN)
}

// uploadMedia routes on the post's media mix: two or more images become a
// carousel document, a single image goes up as-is, and a post with no images
// but a video takes the multipart video path.
func (s *linkedinService) uploadMedia(ctx context.Context, accessToken, ownerURN string, post *models.Post) (string, error) {
	postMedias, err := s.pm.ListByPostID(ctx, post.ID)
	if err != nil {
		return "", err
	}

	var imageSources []string
	var videoSource string

	for _, postMedia := range postMedias {
		assetInfo, err := s.ma.GetByID(ctx, postMedia.AssetID)
		if err != nil {
			return "", err
		}
		if assetInfo == nil {
			return "", fmt.Errorf("asset %d not found", postMedia.AssetID)
		}

		if assetInfo.IsImage() {
			imageSources = append(imageSources, assetInfo.FileURL)
		} else if videoSource == "" {
			videoSource = assetInfo.FileURL
		}
	}

	switch {
	case len(imageSources) >= 2:
		doc, err := s.carousel.BuildCarousel(ctx, imageSources)
		if err != nil {
			return "", err
		}
		return s.uploads.UploadDocument(ctx, accessToken, ownerURN, doc)

	case len(imageSources) == 1:
		image, err := s.assets.NormalizeImage(ctx, imageSources[0])
		if err != nil {
			return "", err
		}
		return s.uploads.UploadImage(ctx, accessToken, ownerURN, image)

	case videoSource != "":
		video, err := s.assets.FetchRaw(ctx, videoSource)
		if err != nil {
			return "", err
		}
		return s.uploads.UploadVideo(ctx, accessToken, ownerURN, video)

	default:
		slog.Info(fmt.Sprintf("post %d has no usable media", post.ID))
		return "", ErrNoMedia
	}
}

func (s *linkedinService) createShare(ctx context.Context, accessToken, authorURN, caption, mediaURN string) (string, error) {
	postRequest := transfer.CreatePostRequest{
		Author:     authorURN,
		Commentary: SanitizeCommentary(caption),
		Visibility: "PUBLIC",
		Distribution: transfer.PostDistribution{
			FeedDistribution: "MAIN_FEED",
		},
		Content: &transfer.PostContent{
			Media: transfer.PostMediaContent{ID: mediaURN},
		},
		LifecycleState: "PUBLISHED",
	}

	jsonData, err := json.Marshal(postRequest)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	url := s.cfg.LinkedInAPIBase + "/posts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("LinkedIn-Version", s.cfg.LinkedInVersion)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("deployment failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("post creation returned %d: %s", resp.StatusCode, string(body)))
		return "", fmt.Errorf("deployment failed: status %d: %s", resp.StatusCode, string(body))
	}

	postID := resp.Header.Get("x-linkedin-id")
	if postID == "" {
		postID = resp.Header.Get("x-restli-id")
	}

	return postID, nil
}

func (s *linkedinService) FetchEngagement(ctx context.Context, acc *models.LinkedInAccount, remoteID string) (*transfer.SocialActionsSummary, error) {
	decryptedAccessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/socialActions/%s", s.cfg.LinkedInAPIBase, remoteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+decryptedAccessToken)
	req.Header.Set("LinkedIn-Version", s.cfg.LinkedInVersion)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info(fmt.Sprintf("socialActions returned %d: %s", resp.StatusCode, string(body)))
		return nil, fmt.Errorf("socialActions returned status %d", resp.StatusCode)
	}

	var summary transfer.SocialActionsSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode socialActions response: %w", err)
	}

	return &summary, nil
}
