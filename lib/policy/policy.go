// Package policy projects the time and money needed to exhaust the keyspace
// of a password policy on priced cloud GPUs.
package policy

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// maxFloatExponent is the base 2 exponent past which a float64 is infinite.
const maxFloatExponent = 1024

var (
	// ErrInvalidPolicy is returned for a non-positive charset size or password length.
	ErrInvalidPolicy = errors.New("invalid password policy")
	// ErrUnknownCharset is returned by CharsetSize for a name that is not a named charset.
	ErrUnknownCharset = errors.New("unknown charset")
)

// Policy is an exhaustive search space: every password of PasswordLength
// characters drawn from a charset of CharsetSize symbols.
type Policy struct {
	CharsetSize    int
	PasswordLength int
}

// Charset is a named character set.
type Charset struct {
	Name string
	Size int
}

// Charsets lists the named character sets, smallest first.
//
//nolint:gochecknoglobals // Charset table is data
var Charsets = []Charset{
	{Name: "numbers", Size: 10},
	{Name: "lowercase", Size: 26},
	{Name: "lowercase+uppercase", Size: 52},
	{Name: "lowercase+uppercase+number", Size: 62},
	{Name: "ascii_printable", Size: 95},
}

// CharsetSize returns the size of a named charset.
func CharsetSize(name string) (int, error) {
	for _, cs := range Charsets {
		if cs.Name == name {
			return cs.Size, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
}

// Validate checks that both dimensions of p are at least 1.
func (p Policy) Validate() error {
	if p.CharsetSize < 1 {
		return fmt.Errorf("%w: charset size %d", ErrInvalidPolicy, p.CharsetSize)
	}

	if p.PasswordLength < 1 {
		return fmt.Errorf("%w: password length %d", ErrInvalidPolicy, p.PasswordLength)
	}

	return nil
}

// Keyspace returns the exact number of passwords in p, CharsetSize to the
// power of PasswordLength.
func (p Policy) Keyspace() (*big.Int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return new(big.Int).Exp(big.NewInt(int64(p.CharsetSize)), big.NewInt(int64(p.PasswordLength)), nil), nil
}

// KeyspaceFloat returns the keyspace rounded to the nearest float64. Above
// 2^53 the value, and every time and cost derived from it, carries rounding
// error; that is fine for order of magnitude estimates. Keyspaces beyond
// the float64 range come back as +Inf without being computed exactly.
func (p Policy) KeyspaceFloat() (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if float64(p.PasswordLength)*math.Log2(float64(p.CharsetSize)) > maxFloatExponent {
		return math.Inf(1), nil
	}

	keyspace, err := p.Keyspace()
	if err != nil {
		return 0, err
	}

	f, _ := new(big.Float).SetInt(keyspace).Float64()

	return f, nil
}

// String formats p for log output.
func (p Policy) String() string {
	return fmt.Sprintf("%d^%d", p.CharsetSize, p.PasswordLength)
}
