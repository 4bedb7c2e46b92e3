package booking

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBookingCode returns a human-readable booking reference, e.g.
// BK1756450000000X7K2Q. The millisecond prefix keeps codes roughly
// sortable, the random suffix keeps same-millisecond codes distinct.
func NewBookingCode(now time.Time) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble
		panic(fmt.Sprintf("booking code generation: %v", err))
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "BK" + strconv.FormatInt(now.UnixMilli(), 10) + string(buf)
}

// NewConfirmationCode returns the short code shown to the customer at
// the venue, BC followed by six digits.
func NewConfirmationCode(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	return "BC" + millis[len(millis)-6:]
}

// NewOrderID derives the gateway order identifier for a booking's
// payment attempt. Each attempt gets a fresh suffix so retried payments
// do not collide at the gateway.
func NewOrderID(bookingID string, now time.Time) string {
	return fmt.Sprintf("order_%s_%d", bookingID, now.UnixMilli())
}
