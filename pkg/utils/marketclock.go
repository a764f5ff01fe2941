package utils

import "time"

// IST is the Indian Standard Time location (UTC+5:30).
var IST = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// FormatDateTimeIST formats a time as "2006-01-02 15:04:05 IST".
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04:05 IST")
}

// NSE session boundaries.
func nseOpen(d time.Time) time.Time {
	d = d.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 15, 0, 0, IST)
}

func nseClose(d time.Time) time.Time {
	d = d.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 15, 30, 0, 0, IST)
}

func nsePreOpen(d time.Time) time.Time {
	d = d.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, IST)
}

// nseHolidays lists NSE trading holidays for 2026. Update annually from
// the NSE circular.
var nseHolidays = map[string]string{
	"2026-01-26": "Republic Day",
	"2026-02-17": "Mahashivratri",
	"2026-03-10": "Holi",
	"2026-03-30": "Id-ul-Fitr (Ramadan)",
	"2026-04-02": "Ram Navami",
	"2026-04-03": "Good Friday",
	"2026-04-14": "Dr. Ambedkar Jayanti",
	"2026-05-01": "Maharashtra Day",
	"2026-05-25": "Buddha Purnima",
	"2026-06-05": "Id-ul-Zuha (Bakri Id)",
	"2026-07-06": "Muharram",
	"2026-08-15": "Independence Day",
	"2026-08-18": "Parsi New Year",
	"2026-09-04": "Milad-un-Nabi",
	"2026-10-02": "Mahatma Gandhi Jayanti",
	"2026-10-20": "Dussehra",
	"2026-11-09": "Diwali (Laxmi Pujan)",
	"2026-11-10": "Diwali (Balipratipada)",
	"2026-11-30": "Guru Nanak Jayanti",
	"2026-12-25": "Christmas",
}

// IsNSEHoliday reports whether the date is an NSE trading holiday.
func IsNSEHoliday(t time.Time) bool {
	_, ok := nseHolidays[t.In(IST).Format("2006-01-02")]
	return ok
}

// IsNSEMarketOpenAt reports whether the NSE regular session would be
// running at the given instant.
func IsNSEMarketOpenAt(t time.Time) bool {
	t = t.In(IST)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	if IsNSEHoliday(t) {
		return false
	}
	return !t.Before(nseOpen(t)) && !t.After(nseClose(t))
}

// NSEMarketStatus describes the current NSE session phase.
func NSEMarketStatus() string {
	return nseMarketStatusAt(NowIST())
}

func nseMarketStatusAt(now time.Time) string {
	now = now.In(IST)

	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}
	if IsNSEHoliday(now) {
		return "CLOSED (" + nseHolidays[now.Format("2006-01-02")] + ")"
	}

	switch {
	case now.Before(nsePreOpen(now)):
		return "PRE-MARKET"
	case now.Before(nseOpen(now)):
		return "PRE-OPEN SESSION"
	case !now.After(nseClose(now)):
		return "OPEN"
	default:
		return "CLOSED"
	}
}
