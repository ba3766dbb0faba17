package backupcode

import (
	"crypto/rand"
	"errors"
	"regexp"
)

const (
	// Alphabet is the 32-symbol code alphabet. 0, O, I, and 1 are excluded to
	// avoid transcription ambiguity when users read codes off paper.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	groupSize = 4

	// DefaultBatchSize is the number of codes issued per enrollment.
	DefaultBatchSize = 10
)

// CodeRegex matches a well-formed backup code (XXXX-XXXX over Alphabet).
var CodeRegex = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`)

// Generate creates count cryptographically random single-use codes in the
// form XXXX-XXXX.
func Generate(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidCodeCount
	}

	codes := make([]string, count)
	for i := 0; i < count; i++ {
		code, err := generateOne()
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

func generateOne() (string, error) {
	raw := make([]byte, groupSize*2)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrFailedToGenerateCode, err)
	}

	buf := make([]byte, groupSize*2+1)
	for i, b := range raw {
		pos := i
		if i >= groupSize {
			pos++ // leave room for the separator
		}
		// len(Alphabet) divides 256, so the modulo introduces no bias.
		buf[pos] = Alphabet[int(b)%len(Alphabet)]
	}
	buf[groupSize] = '-'

	return string(buf), nil
}
