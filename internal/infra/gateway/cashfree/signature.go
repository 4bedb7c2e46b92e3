package cashfree

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"time"

	"boxcric-api/internal/pkg/errs"
)

const replayWindow = 5 * time.Minute

var (
	ErrBadSignature   = errs.New("webhook signature mismatch")
	ErrStaleTimestamp = errs.New("webhook timestamp outside replay window")
)

// VerifyWebhookSignature checks the Cashfree webhook signature:
// base64(HMAC-SHA256(secret, timestamp + rawBody)). The timestamp must
// be within the replay window either side of now.
func VerifyWebhookSignature(secret, timestamp string, rawBody []byte, signature string, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errs.Mark(err, ErrStaleTimestamp)
	}

	sent := time.Unix(ts, 0)
	if diff := now.Sub(sent); diff > replayWindow || diff < -replayWindow {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
