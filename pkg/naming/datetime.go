// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package naming

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const maxFractionDigits = 7

// standardLayouts expands single-character date/time specifiers using
// invariant-culture patterns.
var standardLayouts = map[string]string{
	"d": "MM/dd/yyyy",
	"D": "dddd, dd MMMM yyyy",
	"f": "dddd, dd MMMM yyyy HH:mm",
	"F": "dddd, dd MMMM yyyy HH:mm:ss",
	"g": "MM/dd/yyyy HH:mm",
	"G": "MM/dd/yyyy HH:mm:ss",
	"m": "MMMM dd",
	"M": "MMMM dd",
	"o": "yyyy'-'MM'-'dd'T'HH':'mm':'ss'.'fffffffzzz",
	"O": "yyyy'-'MM'-'dd'T'HH':'mm':'ss'.'fffffffzzz",
	"r": "ddd, dd MMM yyyy HH':'mm':'ss 'GMT'",
	"R": "ddd, dd MMM yyyy HH':'mm':'ss 'GMT'",
	"s": "yyyy'-'MM'-'dd'T'HH':'mm':'ss",
	"t": "HH:mm",
	"T": "HH:mm:ss",
	"u": "yyyy'-'MM'-'dd HH':'mm':'ss'Z'",
	"U": "dddd, dd MMMM yyyy HH:mm:ss",
	"y": "yyyy MMMM",
	"Y": "yyyy MMMM",
}

// utcLayouts are standard specifiers that render the instant in UTC.
var utcLayouts = map[string]bool{"r": true, "R": true, "U": true}

// FormatTime renders t using a custom date/time pattern such as
// "yy-MM-dd.hh.mm.ss". An empty pattern uses "MM/dd/yyyy HH:mm:ss zzz".
//
// A single-character pattern is a standard format: d D f F g G m M o O r R
// s t T u U y Y, expanded with invariant-culture names. r, R and U convert t
// to UTC first.
//
// Supported specifiers: y, M, d, h (12-hour), H, m, s, f, F, t, z, K,
// ':' and '/', quoted literals ('...' or "..."), backslash escapes and a
// leading '%' to force a single-character custom pattern. Any other
// character is copied through.
func FormatTime(t time.Time, pattern string) (string, error) {
	if pattern == "" {
		pattern = "MM/dd/yyyy HH:mm:ss zzz"
	} else if len(pattern) == 1 {
		std, ok := standardLayouts[pattern]
		if !ok {
			return "", fmt.Errorf("unknown standard date/time format %q", pattern)
		}
		if utcLayouts[pattern] {
			t = t.UTC()
		}
		pattern = std
	}

	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		n := runLength(pattern, i)

		switch c {
		case 'y':
			year := t.Year()
			switch n {
			case 1:
				b.WriteString(strconv.Itoa(year % 100))
			case 2:
				b.WriteString(zeroPad(year%100, 2))
			default:
				b.WriteString(zeroPad(year, n))
			}
		case 'M':
			switch n {
			case 1:
				b.WriteString(strconv.Itoa(int(t.Month())))
			case 2:
				b.WriteString(zeroPad(int(t.Month()), 2))
			case 3:
				b.WriteString(t.Month().String()[:3])
			default:
				b.WriteString(t.Month().String())
			}
		case 'd':
			switch n {
			case 1:
				b.WriteString(strconv.Itoa(t.Day()))
			case 2:
				b.WriteString(zeroPad(t.Day(), 2))
			case 3:
				b.WriteString(t.Weekday().String()[:3])
			default:
				b.WriteString(t.Weekday().String())
			}
		case 'h':
			hour := t.Hour() % 12
			if hour == 0 {
				hour = 12
			}
			writeNumber(&b, hour, n)
		case 'H':
			writeNumber(&b, t.Hour(), n)
		case 'm':
			writeNumber(&b, t.Minute(), n)
		case 's':
			writeNumber(&b, t.Second(), n)
		case 'f', 'F':
			if n > maxFractionDigits {
				return "", fmt.Errorf("too many fraction digits in %q", pattern)
			}
			writeFraction(&b, t, n, c == 'F')
		case 't':
			designator := "AM"
			if t.Hour() >= 12 {
				designator = "PM"
			}
			if n == 1 {
				designator = designator[:1]
			}
			b.WriteString(designator)
		case 'z':
			writeOffset(&b, t, n)
		case 'K':
			writeOffset(&b, t, 3)
			n = 1
		case ':', '/':
			b.WriteByte(c)
			n = 1
		case '\'', '"':
			end := strings.IndexByte(pattern[i+1:], c)
			if end < 0 {
				return "", fmt.Errorf("unterminated quoted literal in %q", pattern)
			}
			b.WriteString(pattern[i+1 : i+1+end])
			n = end + 2
		case '\\':
			if i+1 >= len(pattern) {
				return "", fmt.Errorf("trailing escape in %q", pattern)
			}
			b.WriteByte(pattern[i+1])
			n = 2
		case '%':
			n = 1
		default:
			b.WriteByte(c)
			n = 1
		}

		i += n
	}

	return b.String(), nil
}

// runLength counts how many times pattern[i] repeats starting at i.
func runLength(pattern string, i int) int {
	n := 1
	for i+n < len(pattern) && pattern[i+n] == pattern[i] {
		n++
	}
	return n
}

func writeNumber(b *strings.Builder, v, n int) {
	if n == 1 {
		b.WriteString(strconv.Itoa(v))
		return
	}
	b.WriteString(zeroPad(v, 2))
}

func zeroPad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func writeFraction(b *strings.Builder, t time.Time, n int, trim bool) {
	// nanoseconds truncated to n digits
	digits := fmt.Sprintf("%09d", t.Nanosecond())[:n]
	if !trim {
		b.WriteString(digits)
		return
	}

	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		s := b.String()
		if strings.HasSuffix(s, ".") {
			b.Reset()
			b.WriteString(s[:len(s)-1])
		}
		return
	}
	b.WriteString(digits)
}

func writeOffset(b *strings.Builder, t time.Time, n int) {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60

	b.WriteRune(sign)
	switch n {
	case 1:
		b.WriteString(strconv.Itoa(hours))
	case 2:
		b.WriteString(zeroPad(hours, 2))
	default:
		b.WriteString(zeroPad(hours, 2))
		b.WriteByte(':')
		b.WriteString(zeroPad(minutes, 2))
	}
}
