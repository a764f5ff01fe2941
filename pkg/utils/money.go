// Package utils holds display helpers for the CLI surface: money and
// volume formatting for US and Indian conventions, NSE symbol
// resolution, and the NSE market clock.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats an amount as "$1,234,567.89".
func FormatUSD(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	out := fmt.Sprintf("$%s.%02d", groupThousands(whole), cents)
	if negative {
		return "-" + out
	}
	return out
}

// FormatINR formats an amount with Indian digit grouping, e.g.
// "₹12,34,567.89". The last three digits form one group, the rest pairs.
func FormatINR(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	paise := int64(math.Round((amount - float64(whole)) * 100))
	if paise == 100 {
		whole++
		paise = 0
	}

	out := fmt.Sprintf("₹%s.%02d", groupIndian(whole), paise)
	if negative {
		return "-" + out
	}
	return out
}

// FormatINRCompact renders large rupee amounts in lakh/crore notation,
// e.g. 1927345 → "₹19.27 L", 250000000 → "₹25 Cr".
func FormatINRCompact(amount float64) string {
	prefix := "₹"
	if amount < 0 {
		prefix = "-₹"
		amount = -amount
	}

	switch {
	case amount >= 1e7:
		return prefix + trimZeros(amount/1e7) + " Cr"
	case amount >= 1e5:
		return prefix + trimZeros(amount/1e5) + " L"
	case amount >= 1e3:
		return prefix + trimZeros(amount/1e3) + " K"
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct renders a signed percentage, e.g. "+2.45%" or "-1.23%".
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatVolumeIndian renders share volume in lakh/crore units.
func FormatVolumeIndian(volume int64) string {
	v := float64(volume)
	switch {
	case v >= 1e7:
		return fmt.Sprintf("%.2f Cr", v/1e7)
	case v >= 1e5:
		return fmt.Sprintf("%.2f L", v/1e5)
	case v >= 1e3:
		return fmt.Sprintf("%.2f K", v/1e3)
	default:
		return fmt.Sprintf("%d", volume)
	}
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// groupIndian groups the last three digits, then pairs.
func groupIndian(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	out := s[len(s)-3:]
	rest := s[:len(s)-3]
	for len(rest) > 2 {
		out = rest[len(rest)-2:] + "," + out
		rest = rest[:len(rest)-2]
	}
	return rest + "," + out
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
