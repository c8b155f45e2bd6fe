package chatlog

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive day range in YYYY-MM-DD form.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) String() string {
	return r.Start + "~" + r.End
}

// RangeFor resolves the range to fetch. Explicit dates win; otherwise the
// range ends today and starts days before it (0 means today only).
func RangeFor(now time.Time, start, end string, days int) (DateRange, error) {
	if end == "" {
		end = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, end); err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	if start == "" {
		if days < 0 {
			return DateRange{}, fmt.Errorf("days must not be negative, got %d", days)
		}
		start = now.AddDate(0, 0, -days).Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, start); err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}

	if start > end {
		return DateRange{}, fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return DateRange{Start: start, End: end}, nil
}
