package contextgen

import "bytes"

// sniffLen bounds how many leading bytes are inspected for binary content.
const sniffLen = 512

// isBinaryContent reports whether data looks binary: a null byte in the
// leading window, or more than 30% non-printable characters.
func isBinaryContent(data []byte) bool {
	window := data
	if len(window) > sniffLen {
		window = window[:sniffLen]
	}
	if len(window) == 0 {
		return false
	}
	if bytes.IndexByte(window, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range window {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(window)) > 0.3
}

// isPrintable checks if a byte represents a printable ASCII character.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b == '\n' || b == '\r' || b == '\t' || b >= 0x80
}
