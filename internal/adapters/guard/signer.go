// Package guard implements the time-based signing the confirmation
// service and login flow expect: HMAC-SHA1 tokens over a shared or
// identity secret plus the current synchronized timestamp.
package guard

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	// codeChars is the alphabet two-factor codes are drawn from
	codeChars = "23456789BCDFGHJKMNPQRTVWXY"
	// codeLength is the number of characters in a two-factor code
	codeLength = 5
	// codePeriod is the rotation period of two-factor codes
	codePeriod = 30 * time.Second
)

// Signer produces confirmation signatures from an account's identity
// secret. Implements ports.Signer.
type Signer struct{}

// NewSigner creates a Signer
func NewSigner() *Signer {
	return &Signer{}
}

// Sign computes the confirmation token for the given tag at the given
// time: base64(HMAC-SHA1(secret, unix_be64 || tag)).
func (s *Signer) Sign(secret string, t time.Time, tag string) (string, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("malformed identity secret: %w", err)
	}

	payload := make([]byte, 8, 8+len(tag))
	binary.BigEndian.PutUint64(payload, uint64(t.Unix()))
	payload = append(payload, tag...)

	mac := hmac.New(sha1.New, key)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// TwoFactorCode computes the rotating login code for the given shared
// secret at the given time.
func TwoFactorCode(sharedSecret string, t time.Time) (string, error) {
	key, err := base64.StdEncoding.DecodeString(sharedSecret)
	if err != nil {
		return "", fmt.Errorf("malformed shared secret: %w", err)
	}

	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, uint64(t.Unix())/uint64(codePeriod.Seconds()))

	mac := hmac.New(sha1.New, key)
	mac.Write(counter)
	digest := mac.Sum(nil)

	offset := digest[len(digest)-1] & 0x0f
	value := binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff

	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeChars[value%uint32(len(codeChars))]
		value /= uint32(len(codeChars))
	}
	return string(code), nil
}
