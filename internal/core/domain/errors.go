package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal failure")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrOCRTimeout        = errors.New("ocr timeout")
	ErrOCREngine         = errors.New("ocr engine failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
