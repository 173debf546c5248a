// Package shared holds small helpers for handling secrets in memory.
package shared

// WipeByteArray overwrites b with zeros so a password read from the
// terminal does not linger in the buffer. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
