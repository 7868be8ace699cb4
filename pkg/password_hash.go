package pkg

import (
	"strconv"
	"strings"
)

// HashPassword applies the legacy password transform: every byte c of the
// password becomes the decimal digits of (c*7) % 127, concatenated without
// a delimiter. Bytes are treated as signed, so non-ASCII input yields
// negative groups. It is NOT a secure hash; existing user files depend on
// its exact output.
func HashPassword(password string) string {
	var sb strings.Builder
	for i := 0; i < len(password); i++ {
		code := int(int8(password[i]))
		sb.WriteString(strconv.Itoa(code * 7 % 127))
	}
	return sb.String()
}

func CheckPasswordHash(password, hash string) bool {
	return HashPassword(password) == hash
}
