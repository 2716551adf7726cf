package etherman

import (
	"encoding/hex"
	"strings"
)

const wordHexLength = 64

// bytesToHexString renders b as 0x-prefixed lowercase hex, right-padded with
// '0' up to 64 digits.
func bytesToHexString(b []byte) string {
	s := hex.EncodeToString(b)
	if len(s) < wordHexLength {
		s += strings.Repeat("0", wordHexLength-len(s))
	}
	return "0x" + s
}

// zeroPadString left-pads s with '0' up to 64 characters.
func zeroPadString(s string) string {
	if len(s) >= wordHexLength {
		return s
	}
	return strings.Repeat("0", wordHexLength-len(s)) + s
}
