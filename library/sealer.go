package library

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sealed:v1:"
	saltSize     = 16
	nonceSize    = 24
)

// ErrSealBroken means a sealed token could not be opened, usually a wrong passphrase.
var ErrSealBroken = errors.New("stored token could not be unsealed")

type sealer struct {
	key [32]byte
}

func newSealer(passphrase string, salt []byte) *sealer {
	s := &sealer{}
	copy(s.key[:], argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32))
	return s
}

func (s *sealer) seal(plain string) (string, error) {
	raw, err := randomBytes(nonceSize)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw)
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(box), nil
}

func (s *sealer) open(value string) (string, error) {
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealBroken, err)
	}
	if len(data) < nonceSize+secretbox.Overhead {
		return "", ErrSealBroken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrSealBroken
	}
	return string(plain), nil
}

func isSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}
