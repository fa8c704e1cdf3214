package service

import (
	"strings"
	"time"
)

func GetExpiresAt(expiresIn int) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// SanitizeCommentary strips parentheses from post text. The platform's
// little-text format treats them as grouping markers and rejects unescaped
// ones.
func SanitizeCommentary(text string) string {
	r := strings.NewReplacer("(", "", ")", "")
	return r.Replace(text)
}
