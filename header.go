package l2encdec

import (
	"fmt"
	"strconv"
	"strings"
)

// WideHeader widens each byte of the header text to a 16-bit little-endian
// unit, the form it takes on disk. Text is not transcoded: a multi-byte UTF-8
// character becomes one unit per byte.
func WideHeader(text string) []byte {
	out := make([]byte, len(text)*2)
	for i := 0; i < len(text); i++ {
		out[i*2] = text[i]
	}
	return out
}

// readWideHeader narrows a widened header back to its bytes. Units with a
// non-zero high byte are skipped.
func readWideHeader(b []byte) string {
	out := make([]byte, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		if b[i+1] == 0 {
			out = append(out, b[i])
		}
	}
	return string(out)
}

// DetectProtocol reads the protocol version from a default header
// ("Lineage2VerNNN"). Only versions in the protocol table are reported.
func DetectProtocol(wire []byte) (int, error) {
	if len(wire) < HeaderSize {
		return 0, newStageError(ErrTruncated, "header", 0, fmt.Errorf("%d bytes", len(wire)))
	}
	text := readWideHeader(wire[:HeaderSize])
	digits, ok := strings.CutPrefix(text, HeaderPrefix)
	if !ok {
		return 0, newStageError(ErrUnknownProtocol, "header", 0, fmt.Errorf("header %q", text))
	}
	protocol, err := strconv.Atoi(digits)
	if err != nil {
		return 0, newStageError(ErrUnknownProtocol, "header", 0, fmt.Errorf("header %q", text))
	}
	if !IsSupported(protocol) {
		return 0, &ProtocolError{Protocol: protocol}
	}
	return protocol, nil
}
