package typemap

import "errors"

var (
	ErrShortChecksum = errors.New("typemap: checksum shorter than prefix plus one digest byte")
	ErrInvalidPrefix = errors.New("typemap: reserved invalid prefix")
	ErrUnknownPrefix = errors.New("typemap: prefix not in registry")
)
