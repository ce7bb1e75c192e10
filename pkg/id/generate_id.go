package id

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// ticketDigits is the width of the numeric part of a ticket id (L0421, I9310).
const ticketDigits = 4

// maxTicketAttempts bounds the collision loop in UniqueTicket.
const maxTicketAttempts = 50

var ErrTicketSpaceExhausted = errors.New("id: no free ticket id after max attempts")

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewTicket returns prefix followed by ticketDigits random decimal digits.
func NewTicket(prefix string) string {
	limit := big.NewInt(1)
	for i := 0; i < ticketDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("%s%0*d", prefix, ticketDigits, n.Int64())
}

// UniqueTicket draws tickets until taken reports a free one.
func UniqueTicket(prefix string, taken func(string) (bool, error)) (string, error) {
	for i := 0; i < maxTicketAttempts; i++ {
		candidate := NewTicket(prefix)
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}
	return "", ErrTicketSpaceExhausted
}
