package core

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// ValidateName validates a leaf name.
//
// Validation rules:
//   - Name must not be empty
//   - Name must not contain whitespace
//   - Name must not contain any of the operator or grouping characters &|^~()
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, reservedChars) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// ValidateNames validates every name and rejects duplicates.
func ValidateNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return err
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// IsFiniteScore reports whether score is neither NaN nor infinite.
func IsFiniteScore(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0)
}
