package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID             int64        `db:"id" json:"id"`
	UserID         int64        `db:"user_id" json:"user_id"`
	TargetURN      string       `db:"target_urn" json:"target_urn"`
	PostType       string       `db:"post_type" json:"post_type"`
	Caption        string       `db:"caption" json:"caption"`
	ScheduledTime  time.Time    `db:"scheduled_time" json:"scheduled_time"`
	Status         string       `db:"status" json:"status"`
	AttemptCount   int          `db:"attempt_count" json:"attempt_count"`
	LinkedInPostID string       `db:"linkedin_post_id" json:"linkedin_post_id"`
	PostedAt       sql.NullTime `db:"posted_at" json:"posted_at"`
	FailureReason  string       `db:"failure_reason" json:"failure_reason"`
	Likes          int          `db:"likes" json:"likes"`
	Comments       int          `db:"comments" json:"comments"`
	MetricsSyncAt  sql.NullTime `db:"metrics_synced_at" json:"metrics_synced_at"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	FileName  string    `db:"file_name"`
	FileType  string    `db:"file_type"`
	FileSize  int64     `db:"file_size"`
	FileURL   string    `db:"file_url"`
	CreatedAt time.Time `db:"created_at"`
}

// IsImage reports whether the asset holds an image source. Video posts carry
// exactly one non-image asset.
func (ma *MediaAsset) IsImage() bool {
	return len(ma.FileType) >= 5 && ma.FileType[:5] == "image"
}

type PostMedia struct {
	PostID       int64     `db:"post_id"`
	AssetID      int64     `db:"asset_id"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	PostStatusPending    = "pending"
	PostStatusApproved   = "approved"
	PostStatusScheduled  = "scheduled"
	PostStatusProcessing = "processing"
	PostStatusPosted     = "posted"
	PostStatusFailed     = "failed"
)

const (
	PostTypeSingle   = "single"
	PostTypeMultiple = "multiple"
	PostTypeVideo    = "video"
)
