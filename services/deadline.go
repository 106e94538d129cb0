package services

import "time"

const (
	// ResponseWindowDays is how long a reviewer has to accept or decline.
	ResponseWindowDays = 1
	// ReviewWindowDays is how long a reviewer has to submit once accepted or bounced back.
	ReviewWindowDays = 2
)

// Deadline returns midnight at the start of the calendar day days+1 after from's day,
// in from's location. A request assigned any time on the 10th with one day to respond
// is due at 00:00 on the 12th.
func Deadline(from time.Time, days int) time.Time {
	y, m, d := from.Date()
	return time.Date(y, m, d+days+1, 0, 0, 0, 0, from.Location())
}
