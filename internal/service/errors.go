package service

import "errors"

var (
	// ErrInvalidMedia wraps every fetch or decode failure in the asset
	// normalizer so callers can distinguish bad media from platform errors.
	ErrInvalidMedia = errors.New("invalid media")

	// ErrNoMedia is returned when a post carries neither images nor video.
	// No network call is made in that case.
	ErrNoMedia = errors.New("post has no media")

	// ErrAccountNotConnected is returned when a post's target URN does not
	// resolve to a linked identity of the owning user.
	ErrAccountNotConnected = errors.New("linkedin account not connected")

	// ErrVideoProcessingTimeout is returned when the video-ready poll hits
	// its wall-clock deadline. Never treated as success.
	ErrVideoProcessingTimeout = errors.New("video processing timed out")
)
