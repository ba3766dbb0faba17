package mfa

import (
	"fmt"
	"strings"
)

// blobSeparator joins the three base64 parts of an at-rest secret:
// nonce|tag|ciphertext.
const blobSeparator = "|"

func encodeSecretBlob(nonce, tag, ciphertext string) string {
	return nonce + blobSeparator + tag + blobSeparator + ciphertext
}

func decodeSecretBlob(blob string) (ciphertext, nonce, tag string, err error) {
	parts := strings.Split(blob, blobSeparator)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: expected 3 parts, got %d", ErrInvalidSecretBlob, len(parts))
	}
	return parts[2], parts[0], parts[1], nil
}
