// Package timestamp deterministically formats a Unix epoch into named
// presets or strftime-compatible patterns. It never reads
// the wall clock: every call takes the epoch seconds explicitly.
package timestamp

import (
	"fmt"
	"time"

	"github.com/zervdev/zerv/src/zerr"
)

// compact presets resolved directly, without tokenization.
const (
	presetCompactDate     = "compact_date"
	presetCompactDatetime = "compact_datetime"
)

// patternAlphabet is the set of letters a non-strftime pattern may use.
const patternAlphabet = "YMDHmSW0"

// tokenRender maps every valid pattern token to its renderer. This is the
// closed token set: a tokenized run that isn't a key here is invalid, so
// "Y", "YYY", and "0MM" all fail rather than render something plausible.
var tokenRender = map[string]func(t time.Time) string{
	"YYYY": func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) },
	"YY":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) },
	"MM":   func(t time.Time) string { return fmt.Sprintf("%d", int(t.Month())) },
	"0M":   func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) },
	"DD":   func(t time.Time) string { return fmt.Sprintf("%d", t.Day()) },
	"0D":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) },
	"HH":   func(t time.Time) string { return fmt.Sprintf("%d", t.Hour()) },
	"0H":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) },
	"mm":   func(t time.Time) string { return fmt.Sprintf("%d", t.Minute()) },
	"0m":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) },
	"SS":   func(t time.Time) string { return fmt.Sprintf("%d", t.Second()) },
	"0S":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) },
	"WW":   func(t time.Time) string { _, w := t.ISOWeek(); return fmt.Sprintf("%d", w) },
	"0W":   func(t time.Time) string { _, w := t.ISOWeek(); return fmt.Sprintf("%02d", w) },
}

// Resolve formats epochSeconds according to pattern: a compact preset name,
// a pattern made of the alphabet {Y,M,D,H,m,S,W,0}, or a strftime-style
// string beginning with "%" passed through verbatim to the formatter.
func Resolve(pattern string, epochSeconds int64) (string, error) {
	t, err := toTime(epochSeconds)
	if err != nil {
		return "", err
	}

	switch pattern {
	case presetCompactDate:
		return t.Format("20060102"), nil
	case presetCompactDatetime:
		return t.Format("20060102150405"), nil
	}

	if len(pattern) > 0 && pattern[0] == '%' {
		return strftime(pattern, t), nil
	}

	return resolveTokenPattern(pattern, t)
}

func toTime(epochSeconds int64) (time.Time, error) {
	const (
		minRepresentable = -62135596800 // year 1, UTC
		maxRepresentable = 253402300799 // year 9999, UTC
	)
	if epochSeconds < minRepresentable || epochSeconds > maxRepresentable {
		return time.Time{}, zerr.New(zerr.InvalidFormat, "epoch %d outside representable range", epochSeconds)
	}
	return time.Unix(epochSeconds, 0).UTC(), nil
}

// resolveTokenPattern tokenizes pattern into maximal runs of the pattern
// alphabet: a '0' starts a new token that continues while the next
// character is a pattern letter; any other run is a repeat of one letter.
// Every token must be a member of the closed tokenRender set — "YYYY0M0D"
// splits into ["YYYY", "0M", "0D"], while "YYYY0MM" splits into
// ["YYYY", "0MM"] and fails on the unknown "0MM".
func resolveTokenPattern(pattern string, t time.Time) (string, error) {
	if pattern == "" {
		return "", zerr.New(zerr.InvalidFormat, "empty timestamp pattern")
	}

	var out []byte
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if !isPatternChar(c) {
			return "", zerr.New(zerr.InvalidFormat, "unknown timestamp token %q", string(c))
		}

		j := i + 1
		if c == '0' {
			for j < len(pattern) && isPatternLetter(pattern[j]) {
				j++
			}
		} else {
			for j < len(pattern) && pattern[j] == c {
				j++
			}
		}
		token := pattern[i:j]

		render, ok := tokenRender[token]
		if !ok {
			return "", zerr.New(zerr.InvalidFormat, "unknown timestamp token %q in pattern %q", token, pattern)
		}
		out = append(out, render(t)...)
		i = j
	}
	return string(out), nil
}

func isPatternLetter(c byte) bool {
	return c == 'Y' || c == 'M' || c == 'D' || c == 'H' || c == 'm' || c == 'S' || c == 'W'
}

func isPatternChar(c byte) bool {
	for i := 0; i < len(patternAlphabet); i++ {
		if patternAlphabet[i] == c {
			return true
		}
	}
	return false
}

// strftime implements the small subset of strftime directives zerv needs
// for patterns that begin with "%" (passed through from user templates).
func strftime(pattern string, t time.Time) string {
	var b []byte
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' || i+1 >= len(pattern) {
			b = append(b, pattern[i])
			continue
		}
		i++
		switch pattern[i] {
		case 'Y':
			b = append(b, fmt.Sprintf("%04d", t.Year())...)
		case 'y':
			b = append(b, fmt.Sprintf("%02d", t.Year()%100)...)
		case 'm':
			b = append(b, fmt.Sprintf("%02d", int(t.Month()))...)
		case '-':
			// %-m, %-d etc: unpadded variants
			if i+1 < len(pattern) {
				i++
				switch pattern[i] {
				case 'm':
					b = append(b, fmt.Sprintf("%d", int(t.Month()))...)
				case 'd':
					b = append(b, fmt.Sprintf("%d", t.Day())...)
				case 'H':
					b = append(b, fmt.Sprintf("%d", t.Hour())...)
				case 'W':
					_, w := t.ISOWeek()
					b = append(b, fmt.Sprintf("%d", w)...)
				}
			}
		case 'd':
			b = append(b, fmt.Sprintf("%02d", t.Day())...)
		case 'H':
			b = append(b, fmt.Sprintf("%02d", t.Hour())...)
		case 'M':
			b = append(b, fmt.Sprintf("%02d", t.Minute())...)
		case 'S':
			b = append(b, fmt.Sprintf("%02d", t.Second())...)
		case 'W':
			_, w := t.ISOWeek()
			b = append(b, fmt.Sprintf("%02d", w)...)
		case '%':
			b = append(b, '%')
		default:
			b = append(b, '%', pattern[i])
		}
	}
	return string(b)
}
