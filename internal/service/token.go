package service

import (
	"fmt"
	"strings"

	"github.com/phrazzld/aiplanner/internal/domain"
)

// rejectedTokenFragments are substrings that never appear in a course-service
// access token. Matching is case-sensitive.
var rejectedTokenFragments = []string{
	"'", `"`, ";", "--", "<", ">", "%", "$", "^", "-", "[", "]", "=", "@",
	"OR", "AND", "DROP TABLE",
}

// ValidateAccessToken trims a user-supplied access token and rejects it if it
// is empty or contains a forbidden fragment. It makes no network call.
func ValidateAccessToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", fmt.Errorf("%w: token is empty", domain.ErrInvalidToken)
	}

	for _, fragment := range rejectedTokenFragments {
		if strings.Contains(token, fragment) {
			return "", fmt.Errorf("%w: token contains a forbidden character sequence", domain.ErrInvalidToken)
		}
	}

	return token, nil
}
