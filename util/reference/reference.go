// Package reference generates payment reference strings. Tokens come from
// crypto/rand so two concurrent generations can never collide the way a
// time-seeded source could.
package reference

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const tokenBytes = 8

func Token() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

// Payment builds the rental payment reference, e.g. PAY-1A2B3C4D5E6F7890-12.
func Payment(rentalID int64) string {
	return fmt.Sprintf("PAY-%s-%d", Token(), rentalID)
}

// Cash builds the cash confirmation reference, e.g. CASH-1A2B3C4D5E6F7890.
func Cash() string {
	return "CASH-" + Token()
}
