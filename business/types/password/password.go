// Package password represents a password in the system.
package password

import "fmt"

// Password represents a password in the system.
type Password struct {
	value string
}

// String returns a masked representation for logging and any marshal needs.
// The raw value never leaves this package except through the bcrypt call.
func (p Password) String() string {
	return "*****"
}

// Equal provides support for the go-cmp package and testing.
func (p Password) Equal(p2 Password) bool {
	return p.value == p2.value
}

// MarshalText provides support for logging and any marshal needs.
func (p Password) MarshalText() ([]byte, error) {
	return []byte("*****"), nil
}

// Bytes returns the raw password bytes for hashing.
func (p Password) Bytes() []byte {
	return []byte(p.value)
}

// =============================================================================

// Parse parses the string value and returns a password if the value complies
// with the rules for a password.
func Parse(value string) (Password, error) {
	if len(value) < 8 || len(value) > 72 {
		return Password{}, fmt.Errorf("password must be between 8 and 72 characters")
	}

	return Password{value}, nil
}

// MustParse parses the string value and returns a password if the value
// complies with the rules for a password. If an error occurs the function
// panics.
func MustParse(value string) Password {
	password, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return password
}
