package transfer

// Wire shapes for the LinkedIn REST API (versioned /rest endpoints).

type InitializeUploadRequest struct {
	Owner         string `json:"owner"`
	FileSizeBytes int64  `json:"fileSizeBytes,omitempty"`
}

type InitializeUploadBody struct {
	InitializeUploadRequest InitializeUploadRequest `json:"initializeUploadRequest"`
}

type ImageUploadValue struct {
	UploadURL string `json:"uploadUrl"`
	Image     string `json:"image"`
}

type ImageUploadResponse struct {
	Value ImageUploadValue `json:"value"`
}

type DocumentUploadValue struct {
	UploadURL string `json:"uploadUrl"`
	Document  string `json:"document"`
}

type DocumentUploadResponse struct {
	Value DocumentUploadValue `json:"value"`
}

type UploadInstruction struct {
	UploadURL string `json:"uploadUrl"`
	FirstByte int64  `json:"firstByte"`
	LastByte  int64  `json:"lastByte"`
}

type VideoUploadValue struct {
	Video              string              `json:"video"`
	UploadToken        string              `json:"uploadToken"`
	UploadInstructions []UploadInstruction `json:"uploadInstructions"`
}

type VideoUploadResponse struct {
	Value VideoUploadValue `json:"value"`
}

type FinalizeUploadRequest struct {
	Video           string   `json:"video"`
	UploadToken     string   `json:"uploadToken"`
	UploadedPartIds []string `json:"uploadedPartIds"`
}

type FinalizeUploadBody struct {
	FinalizeUploadRequest FinalizeUploadRequest `json:"finalizeUploadRequest"`
}

type VideoStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type PostDistribution struct {
	FeedDistribution string `json:"feedDistribution"`
}

type PostMediaContent struct {
	ID string `json:"id"`
}

type PostContent struct {
	Media PostMediaContent `json:"media"`
}

type CreatePostRequest struct {
	Author         string           `json:"author"`
	Commentary     string           `json:"commentary"`
	Visibility     string           `json:"visibility"`
	Distribution   PostDistribution `json:"distribution"`
	Content        *PostContent     `json:"content,omitempty"`
	LifecycleState string           `json:"lifecycleState"`
}

type LinkedInTokenResponse struct {
	AccessToken           string `json:"access_token"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
}

// LinkedInUserInfo is the OIDC userinfo payload; Sub is the member id the
// author URN is derived from.
type LinkedInUserInfo struct {
	Sub        string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Email      string `json:"email"`
}

type SocialActionsSummary struct {
	LikesSummary struct {
		TotalLikes int `json:"totalLikes"`
	} `json:"likesSummary"`
	CommentsSummary struct {
		AggregatedTotalComments int `json:"aggregatedTotalComments"`
	} `json:"commentsSummary"`
}
