package common

// UnknownStr is what enum String methods return for out-of-range values.
const UnknownStr = "unknown"

// Unpack2 returns the first two elements of s, zero-filling what is missing.
func Unpack2[S ~[]T, T any](s S) (first T, second T) {
	switch len(s) {
	default:
		return s[0], s[1]
	case 0:
		return
	case 1:
		first = s[0]
		return
	}
}
