package person

import (
	"fmt"
	"strconv"
	"strings"
)

// NextID returns prefix followed by the zero-padded successor of the highest
// number found right after prefix in existing. IDs without such a number are ignored.
func NextID(prefix string, existing []string) string {
	var max int
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		digits := leadingDigits(id[len(prefix):])
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil { // overflow
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1)
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
