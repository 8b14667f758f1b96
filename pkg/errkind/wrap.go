package errkind

import "fmt"

// Wrap wraps err with kind and a message, so errors.Is(result, kind) and
// errors.Is(result, err) both hold. Go 1.20+ allows multiple %w verbs in
// one Errorf call, which is what makes both hold simultaneously.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", msg, kind)
	}
	return fmt.Errorf("%s: %w: %w", msg, kind, err)
}
