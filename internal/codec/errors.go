package codec

import "fmt"

// TruncatedInputError reports a read past the end of the buffer.
type TruncatedInputError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}
