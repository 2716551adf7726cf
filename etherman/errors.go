package etherman

import (
	"errors"
	"fmt"
)

var (
	ErrDecode          = errors.New("decode error")
	ErrUnknownSourceID = errors.New("unknown source id")
	ErrSignatureParse  = errors.New("signature parse error")
)

func decodeError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}

// conversionError keeps the normalizer error in the chain.
func conversionError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}
