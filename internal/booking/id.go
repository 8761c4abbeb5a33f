package booking

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// BookingIDPrefix starts every booking reference.
const BookingIDPrefix = "BMS"

// NewBookingID returns BMS followed by ten upper-case hex digits taken from
// the random part of a v4 UUID (40 bits).
func NewBookingID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return BookingIDPrefix + strings.ToUpper(hex.EncodeToString(u[:5])), nil
}
