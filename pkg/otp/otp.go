// Package otp issues and verifies short-lived numeric one-time passcodes for
// email verification. Challenges live in Redis, encrypted at rest, keyed by a
// hash of the email so raw addresses never appear in Redis keys.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/andreimonforte/malocozz/pkg/cache"
	"github.com/andreimonforte/malocozz/pkg/crypt"
)

const (
	// Length is the number of digits in a code.
	Length = 6
	// TTL is how long a challenge stays valid after issue.
	TTL = 10 * time.Minute
	// MaxAttempts is the number of wrong guesses allowed before the
	// challenge is burned.
	MaxAttempts = 5
)

var (
	ErrNoChallenge     = errors.New("otp: no active challenge")
	ErrExpired         = errors.New("otp: code expired")
	ErrTooManyAttempts = errors.New("otp: too many failed attempts")
)

// MismatchError reports a wrong guess and how many attempts remain.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("Invalid OTP. %d attempts remaining.", e.Remaining)
}

// Challenge is one issued code with its verification state.
type Challenge struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
	Attempts int       `json:"attempts"`
}

// Generate returns a random code of Length decimal digits.
func Generate() (string, error) {
	var b strings.Builder
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("otp: generate: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// Check verifies guess against a challenge at the given time. It is pure: the
// caller persists the returned challenge (attempt count may have advanced).
// A nil error means the guess matched.
func Check(ch Challenge, guess string, now time.Time) (Challenge, error) {
	if now.Sub(ch.IssuedAt) > TTL {
		return ch, ErrExpired
	}
	if ch.Attempts >= MaxAttempts {
		return ch, ErrTooManyAttempts
	}
	if ch.Code != guess {
		ch.Attempts++
		if ch.Attempts >= MaxAttempts {
			return ch, ErrTooManyAttempts
		}
		return ch, &MismatchError{Remaining: MaxAttempts - ch.Attempts}
	}
	return ch, nil
}

func redisKey(email string) string {
	return "malocozz:otp:" + crypt.Hash(strings.ToLower(strings.TrimSpace(email)))
}

// Issue generates a fresh code for email and stores the challenge, replacing
// any previous one. Returns the plain code for delivery by mail.
func Issue(email string) (string, error) {
	code, err := Generate()
	if err != nil {
		return "", err
	}

	ch := Challenge{Code: code, IssuedAt: time.Now()}
	enc, err := crypt.EncryptJSON(ch)
	if err != nil {
		return "", err
	}
	if err := cache.Set(redisKey(email), enc, TTL); err != nil {
		return "", fmt.Errorf("otp: store: %w", err)
	}
	return code, nil
}

// Verify checks guess against the stored challenge for email. On success the
// challenge is deleted; on a wrong guess the advanced attempt count is saved
// back so retries across requests keep counting down.
func Verify(email, guess string) error {
	key := redisKey(email)

	var enc string
	if !cache.Get(key, &enc) {
		return ErrNoChallenge
	}

	var ch Challenge
	if err := crypt.DecryptJSON(enc, &ch); err != nil {
		return ErrNoChallenge
	}

	updated, err := Check(ch, guess, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrExpired), errors.Is(err, ErrTooManyAttempts):
			cache.Del(key) //nolint:errcheck
		default:
			remaining := TTL - time.Since(updated.IssuedAt)
			if saved, encErr := crypt.EncryptJSON(updated); encErr == nil {
				cache.Set(key, saved, remaining) //nolint:errcheck
			}
		}
		return err
	}

	return cache.Del(key)
}
