package models

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const AddressLength = 32

// Address is a 32-byte public key, written as base58.
type Address [AddressLength]byte

// ZeroAddress is the default address; it never identifies a player.
var ZeroAddress Address

func ParseAddress(s string) (Address, error) {
	var addr Address
	raw, err := base58.Decode(s)
	if err != nil {
		return addr, fmt.Errorf("decode address %q: %w", s, err)
	}
	if len(raw) != AddressLength {
		return addr, fmt.Errorf("address %q decodes to %d bytes, want %d", s, len(raw), AddressLength)
	}
	copy(addr[:], raw)
	return addr, nil
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
