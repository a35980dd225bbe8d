package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks input rejected before extraction. It is
// surfaced to the caller immediately and never reaches the model.
var ErrInvalidInput = errors.New("invalid input")

// maxInputLen bounds one user utterance.
const maxInputLen = 1000

// injectionMarkers are phrases that indicate a prompt-injection
// attempt. Matched as case-insensitive substrings.
var injectionMarkers = []string{
	"ignore previous instructions",
	"system:",
	"assistant:",
	"user:",
	"prompt:",
	"forget everything",
	"new instructions",
}

// ValidateInput rejects empty, unsafe or oversized utterances.
func ValidateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	lower := strings.ToLower(text)
	for _, marker := range injectionMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: detected %q", ErrInvalidInput, marker)
		}
	}

	if len(text) > maxInputLen {
		return fmt.Errorf("%w: input too long (max %d characters)", ErrInvalidInput, maxInputLen)
	}

	return nil
}
