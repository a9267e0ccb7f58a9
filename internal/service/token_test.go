package service

import (
	"testing"

	"github.com/phrazzld/aiplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccessToken(t *testing.T) {
	t.Parallel()

	token, err := ValidateAccessToken("  7~AbCdEf1234567890xyz \n")
	require.NoError(t, err)
	assert.Equal(t, "7~AbCdEf1234567890xyz", token)

	rejected := []string{
		"",
		"   ",
		"abc' OR 1",
		`abc"def`,
		"abc;def",
		"abc--def",
		"<script>",
		"abc%20",
		"abc$def",
		"abc^def",
		"abc-def",
		"abc[0]",
		"abc=def",
		"user@example",
		"fooORbar",
		"fooANDbar",
		"x DROP TABLE tasks",
	}
	for _, raw := range rejected {
		t.Run(raw, func(t *testing.T) {
			_, err := ValidateAccessToken(raw)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}

	_, err = ValidateAccessToken("lowercase-or-and")
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "dash is rejected even when the keywords are lowercase")

	_, err = ValidateAccessToken("tokenwithorandlowercase")
	assert.NoError(t, err, "keyword matching is case-sensitive")
}
