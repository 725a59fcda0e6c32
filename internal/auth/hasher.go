// Package auth holds the credential schemes a ledger can store passwords
// with. Plain keeps the on-disk format of existing databases; Bcrypt is the
// opt-in hardened scheme.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Hasher interface {
	Name() string
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

func FromName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return Plain{}, nil
	case "bcrypt":
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", name)
	}
}

// Plain stores and compares credentials exactly as supplied.
type Plain struct{}

func (Plain) Name() string { return "plain" }

func (Plain) Hash(password string) (string, error) {
	return password, nil
}

func (Plain) Compare(stored, password string) bool {
	return stored == password
}

type Bcrypt struct {
	Cost int
}

func (Bcrypt) Name() string { return "bcrypt" }

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (Bcrypt) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
