package records

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newID builds "<resource>_<unix-ms>_<9 random [a-z0-9]>".
func newID(resource string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", resource, now.UnixMilli(), randomSuffix(9))
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	for i := range b {
		b[i] = idAlphabet[int(b[i])%len(idAlphabet)]
	}
	return string(b)
}
