package util

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ShareIDLength : 32 hex characters, 128 bits of entropy
const ShareIDLength = 32

const maxTokenAttempts = 8

// generateRandomToken : random hex token of length characters
func generateRandomToken(length int) (string, error) {
	byteLength := (length + 1) / 2
	bytes := make([]byte, byteLength)

	_, err := rand.Read(bytes)
	if err != nil {
		return "", LogError("[util] token generation failed", err)
	}

	return hex.EncodeToString(bytes)[:length], nil
}

// GenerateUniqueToken : draws tokens until exists reports a free one
func GenerateUniqueToken(ctx context.Context, length int, exists func(ctx context.Context, token string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := generateRandomToken(length)
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, token)
		if err != nil {
			return "", LogError("[util] token uniqueness check failed", err)
		}

		if !taken {
			return token, nil
		}
	}
	return "", fmt.Errorf("[util] no free token after %d attempts", maxTokenAttempts)
}
