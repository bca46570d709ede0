package errors

import (
	"strings"
	"unicode"
)

// MaxLabelLength bounds labels accepted from files and requests.
const MaxLabelLength = 256

// ValidateLabel checks that a label can be written in a parenthesized
// expression and read back unchanged:
//   - not empty, at most MaxLabelLength bytes
//   - none of the expression metacharacters '(', ')', ',' and ':'
//   - no control characters
//   - no leading or trailing whitespace (the parser trims it)
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}
	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", MaxLabelLength)
	}
	if i := strings.IndexAny(label, "(),:"); i >= 0 {
		return New(ErrCodeInvalidLabel, "label %q contains reserved character %q", label, label[i])
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label %q contains control characters", label)
		}
	}
	if strings.TrimSpace(label) != label {
		return New(ErrCodeInvalidLabel, "label %q has surrounding whitespace", label)
	}
	return nil
}

// ValidateLabels validates every label and rejects duplicates.
func ValidateLabels(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
		if seen[l] {
			return New(ErrCodeInvalidLabel, "duplicate label %q", l)
		}
		seen[l] = true
	}
	return nil
}
