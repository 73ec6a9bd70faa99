/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issues new token valid for duration
func (i *Issuer) Issue(duration time.Duration) (token string, err error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secretKey)
	if err != nil {
		// notest
		return "", fmt.Errorf("cannot issue import token: %w", err)
	}
	return token, nil
}

// # Implements:
//   - IValidator
func (i *Issuer) Validate(token string) error {
	if token == "" {
		return fmt.Errorf("token is missing: %w", ErrInvalidImportToken)
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidImportToken
		}
		return i.secretKey, nil
	})
	if err != nil {
		return setErrorDescription(err)
	}
	if claims.Subject != Subject {
		return fmt.Errorf(errorVerifySubject, claims.Subject, ErrInvalidImportToken)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return fmt.Errorf("token id «%s»: %w", claims.ID, ErrInvalidImportToken)
	}
	return nil
}

func setErrorDescription(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", ErrImportTokenExpired, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidImportToken, err)
}

func (anyNonEmpty) Validate(token string) error {
	if token == "" {
		return fmt.Errorf("token is missing: %w", ErrInvalidImportToken)
	}
	return nil
}
