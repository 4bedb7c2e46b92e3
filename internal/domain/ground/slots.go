package ground

import "errors"

var ErrInvalidTimeSlot = errors.New("invalid time slot")

// DefaultTimeSlots is the hourly grid every ground opens with, 06:00
// through 22:00 local time.
var DefaultTimeSlots = []string{
	"06:00-07:00",
	"07:00-08:00",
	"08:00-09:00",
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"12:00-13:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
	"17:00-18:00",
	"18:00-19:00",
	"19:00-20:00",
	"20:00-21:00",
	"21:00-22:00",
}

var defaultSlotSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(DefaultTimeSlots))
	for _, s := range DefaultTimeSlots {
		m[s] = struct{}{}
	}
	return m
}()

func IsDefaultSlot(slot string) bool {
	_, ok := defaultSlotSet[slot]
	return ok
}
