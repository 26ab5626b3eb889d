package otp_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreimonforte/malocozz/pkg/otp"
)

func TestGenerateLengthAndDigits(t *testing.T) {
	code, err := otp.Generate()
	require.NoError(t, err)
	require.Len(t, code, otp.Length)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "non-digit in code: %q", code)
	}
}

func TestCheckMatch(t *testing.T) {
	now := time.Now()
	ch := otp.Challenge{Code: "123456", IssuedAt: now}

	_, err := otp.Check(ch, "123456", now)
	assert.NoError(t, err)
}

func TestCheckMismatchCountsDown(t *testing.T) {
	now := time.Now()
	ch := otp.Challenge{Code: "123456", IssuedAt: now}

	ch, err := otp.Check(ch, "000000", now)
	var mismatch *otp.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.Remaining)
	assert.Equal(t, "Invalid OTP. 4 attempts remaining.", err.Error())
	assert.Equal(t, 1, ch.Attempts)
}

func TestCheckBurnsAfterMaxAttempts(t *testing.T) {
	now := time.Now()
	ch := otp.Challenge{Code: "123456", IssuedAt: now}

	var err error
	for i := 0; i < otp.MaxAttempts; i++ {
		ch, err = otp.Check(ch, "999999", now)
	}
	assert.ErrorIs(t, err, otp.ErrTooManyAttempts)

	// Even the right code is rejected once burned.
	_, err = otp.Check(ch, "123456", now)
	assert.ErrorIs(t, err, otp.ErrTooManyAttempts)
}

func TestCheckExpired(t *testing.T) {
	issued := time.Now()
	ch := otp.Challenge{Code: "123456", IssuedAt: issued}

	_, err := otp.Check(ch, "123456", issued.Add(otp.TTL+time.Second))
	assert.ErrorIs(t, err, otp.ErrExpired)

	// Right at the boundary the code still works.
	_, err = otp.Check(ch, "123456", issued.Add(otp.TTL))
	assert.NoError(t, err)
}

func TestVerifyWithoutChallenge(t *testing.T) {
	err := otp.Verify("nobody@example.com", "123456")
	assert.True(t, errors.Is(err, otp.ErrNoChallenge))
}
