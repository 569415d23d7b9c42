// Package money represents a monetary amount in the system.
package money

import "fmt"

// Money represents a monetary amount in the system.
type Money struct {
	value float64
}

// Value returns the value of the money amount.
func (m Money) Value() float64 {
	return m.value
}

// Equal provides support for the go-cmp package and testing.
func (m Money) Equal(m2 Money) bool {
	return m.value == m2.value
}

// MarshalText provides support for logging and any marshal needs.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%.2f", m.value)), nil
}

// =============================================================================

// Parse parses the float value and returns a money amount if the value
// complies with the rules for an amount.
func Parse(value float64) (Money, error) {
	if value < 0 {
		return Money{}, fmt.Errorf("invalid amount %.2f", value)
	}

	return Money{value}, nil
}

// MustParse parses the float value and returns a money amount if the value
// complies with the rules for an amount. If an error occurs the function
// panics.
func MustParse(value float64) Money {
	money, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return money
}
