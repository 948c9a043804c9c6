package correspondence

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateReferenceNumber builds the human-readable identifier:
// direction prefix ("W" incoming, "S" outgoing), current year, and a
// 4-digit random suffix. The suffix can collide; the service retries
// once on a unique-constraint violation before giving up.
func GenerateReferenceNumber(correspondenceType string) string {
	prefix := "S"
	if correspondenceType == TypeIncoming {
		prefix = "W"
	}
	year := time.Now().Year()
	suffix := rand.Intn(10000)
	return fmt.Sprintf("%s%d%04d", prefix, year, suffix)
}
