/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"errors"
	"fmt"
)

func EnrichError(err error, msg string, args ...any) error {
	s := msg
	if len(args) > 0 {
		s = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%w: %s", err, s)
}

var ErrMissedError = errors.New("missed")

func ErrMissed(msg string, args ...any) error {
	return EnrichError(ErrMissedError, msg, args...)
}

var ErrInvalidError = errors.New("not valid")

func ErrInvalid(msg string, args ...any) error {
	return EnrichError(ErrInvalidError, msg, args...)
}

var ErrOutOfBoundsError = errors.New("out of bounds")

func ErrOutOfBounds(msg string, args ...any) error {
	return EnrichError(ErrOutOfBoundsError, msg, args...)
}

var ErrAlreadyExistsError = errors.New("already exists")

func ErrAlreadyExists(msg string, args ...any) error {
	return EnrichError(ErrAlreadyExistsError, msg, args...)
}

var ErrNotFoundError = errors.New("not found")

func ErrNotFound(msg string, args ...any) error {
	return EnrichError(ErrNotFoundError, msg, args...)
}

func ErrSchemaNotFound(key SchemaKey) error {
	return ErrNotFound("schema «%v»", key)
}

func ErrClassNotFound(name QName) error {
	return ErrNotFound("class «%v»", name)
}

var ErrIncompatibleError = errors.New("incompatible")

func ErrIncompatible(msg string, args ...any) error {
	return EnrichError(ErrIncompatibleError, msg, args...)
}

var ErrConvertError = errors.New("convert error")

func ErrConvert(msg string, args ...any) error {
	return EnrichError(ErrConvertError, msg, args...)
}

var ErrInvalidQNameStringRepresentation = errors.New("invalid string representation of qualified name")
