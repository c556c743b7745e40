package oracle

import "fmt"

// MalformedAccountError reports a buffer too short to hold the fixed account prefix.
type MalformedAccountError struct {
	Size int
	Need int
}

func (e *MalformedAccountError) Error() string {
	return fmt.Sprintf("malformed oracle account: %d bytes, fixed prefix needs %d", e.Size, e.Need)
}

// ExponentRangeError reports an exponent outside [MinExponent, MaxExponent].
type ExponentRangeError struct {
	Exponent int32
}

func (e *ExponentRangeError) Error() string {
	return fmt.Sprintf("oracle exponent %d outside [%d, %d]", e.Exponent, MinExponent, MaxExponent)
}
