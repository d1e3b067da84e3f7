package utils

import (
	"fmt"
	"strconv"
)

func IsNumericPort(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParsePort parses a decimal TCP port such as "3456". Service names are not
// handled here; see listener.Resolve.
func ParsePort(s string) (int, error) {
	if !IsNumericPort(s) {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if v > 65535 {
		return 0, fmt.Errorf("port %d out of range", v)
	}
	return v, nil
}
