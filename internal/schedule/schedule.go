// Package schedule computes ship dates from received dates.
//
// Only weekends are skipped; holidays are not modeled.
package schedule

import "time"

// DefaultBusinessDays is the standard handling window between receipt and shipment.
const DefaultBusinessDays = 5

// DateLayout is the ISO date format used in status documents and the ledger.
const DateLayout = "2006-01-02"

// AddWeekdays advances one calendar day at a time from d, counting only
// Monday through Friday, until n such days have been counted. The time of day
// and location of d are preserved. n <= 0 returns d unchanged.
func AddWeekdays(d time.Time, n int) time.Time {
	current := d
	for n > 0 {
		current = current.AddDate(0, 0, 1)
		if IsWeekday(current) {
			n--
		}
	}
	return current
}

// ShipDate returns the date an order received on received is due to ship,
// using the standard five-business-day window.
func ShipDate(received time.Time) time.Time {
	return AddWeekdays(received, DefaultBusinessDays)
}

// IsWeekday reports whether d falls Monday through Friday.
func IsWeekday(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}
