package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

var (
	ErrExpired     = errors.New("otp expired")
	ErrAlreadyUsed = errors.New("otp already used")
	ErrMismatch    = errors.New("otp does not match")
)

// Purpose distinguishes what an OTP unlocks so a registration code
// cannot be replayed against another flow.
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposePasswordReset Purpose = "password_reset"
)

type OTP struct {
	id        uuid.UUID
	email     string
	code      string
	purpose   Purpose
	used      bool
	expiresAt time.Time
	createdAt time.Time
}

func New(email string, purpose Purpose, ttl time.Duration, now time.Time) *OTP {
	return &OTP{
		id:        uuid.New(),
		email:     email,
		code:      generateCode(),
		purpose:   purpose,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}
}

func Reconstruct(id uuid.UUID, email, code string, purpose Purpose, used bool, expiresAt, createdAt time.Time) *OTP {
	return &OTP{
		id:        id,
		email:     email,
		code:      code,
		purpose:   purpose,
		used:      used,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (o *OTP) ID() uuid.UUID        { return o.id }
func (o *OTP) Email() string        { return o.email }
func (o *OTP) Code() string         { return o.code }
func (o *OTP) Purpose() Purpose     { return o.purpose }
func (o *OTP) Used() bool           { return o.used }
func (o *OTP) ExpiresAt() time.Time { return o.expiresAt }
func (o *OTP) CreatedAt() time.Time { return o.createdAt }

// Verify checks the submitted code and consumes the OTP on success.
// A consumed OTP never verifies again.
func (o *OTP) Verify(code string, now time.Time) error {
	if o.used {
		return ErrAlreadyUsed
	}
	if now.After(o.expiresAt) {
		return ErrExpired
	}
	if o.code != code {
		return ErrMismatch
	}
	o.used = true
	return nil
}

func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(fmt.Sprintf("otp generation: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}
