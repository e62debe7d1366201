package outreach

import (
	"time"

	"go.uber.org/zap"
)

// Business hours are [openHour, closeHour) local time, Monday to Friday.
const (
	openHour  = 9
	closeHour = 17
)

// IsWithinBusinessHours reports whether now falls on a weekday between 9:00
// and 17:00 in zone. An unknown zone reports true.
func IsWithinBusinessHours(zone string, now time.Time) bool {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		zap.L().Warn("outreach: unknown time zone, skipping business hours check", zap.String("zone", zone))
		return true
	}

	local := now.In(loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return local.Hour() >= openHour && local.Hour() < closeHour
}

// LocalTime renders now in zone, or "Unknown" when the zone does not resolve.
func LocalTime(zone string, now time.Time) string {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "Unknown"
	}
	return now.In(loc).Format("2006-01-02 15:04:05 MST")
}
