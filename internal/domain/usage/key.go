package usage

import (
	"fmt"
	"strconv"
)

const (
	userKeyPrefix    = "u:"
	addressKeyPrefix = "ip:"
)

// KeyForUser returns the key of an authenticated subject.
func KeyForUser(userID uint) string {
	return userKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// KeyForAddress returns the key of an anonymous subject seen from address.
func KeyForAddress(address string) string {
	return addressKeyPrefix + address
}

// ValidateKey rejects empty keys and keys without a subject after the prefix.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("usage key is required")
	case key == userKeyPrefix || key == addressKeyPrefix:
		return fmt.Errorf("usage key %q has no subject", key)
	}
	return nil
}
