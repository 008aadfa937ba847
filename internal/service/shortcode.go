package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
)

// shortCodeAttempts bounds regeneration when a code is already taken.
const shortCodeAttempts = 10

var errShortCodeTaken = errors.New("short code already in use")

// ErrShortCodeExhausted is returned when no free short code was found.
var ErrShortCodeExhausted = errors.New("could not allocate a unique short code")

// NewShortCode returns a random 8-character lowercase hex token.
func NewShortCode() string {
	return uuid.New().String()[:models.ShortCodeLength]
}
