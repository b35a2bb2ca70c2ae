// Package id generates opaque identifiers for persisted records.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// sortable keeps byte order in string order.
var sortable = base32.HexEncoding.WithPadding(base32.NoPadding)

// NewID returns a random UUIDv4 encoded as 26 lowercase base32 characters.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// NewOrderedID returns a UUIDv7 encoded as 26 lowercase base32hex
// characters. IDs from one process sort in creation order, even within
// the same millisecond.
func NewOrderedID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate ordered id: %w", err)
	}
	return strings.ToLower(sortable.EncodeToString(value[:])), nil
}
