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
	"unicode/utf8"

	apperrors "github.com/NVIDIA/disksnap/pkg/errors"
)

// DefaultFormat names a snapshot after its disk followed by the UTC creation
// time at second granularity, e.g. data-disk-snapshot-25-01-15.02.30.00.
const DefaultFormat = "{0}-snapshot-{1:yy-MM-dd.hh.mm.ss}"

// SnapshotName formats a snapshot name with the disk name in slot 0 and the
// UTC form of now in slot 1.
func SnapshotName(format, diskName string, now time.Time) (string, error) {
	return Format(format, diskName, now.UTC())
}

// Format expands a composite format string. Items take the form
// {index[,alignment][:formatString]}; literal braces are written as {{ and }}.
// time.Time arguments honour date/time patterns in formatString, every other
// argument is rendered with %v.
func Format(format string, args ...any) (string, error) {
	var b strings.Builder
	b.Grow(len(format) + 16)

	for i := 0; i < len(format); {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return "", invalidFormat(format, "unterminated format item at position %d", i)
			}
			item := format[i+1 : i+1+end]
			s, err := formatItem(item, args)
			if err != nil {
				return "", apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
					"invalid snapshot name format", err, map[string]any{"format": format})
			}
			b.WriteString(s)
			i += end + 2
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			return "", invalidFormat(format, "unexpected '}' at position %d", i)
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), nil
}

func formatItem(item string, args []any) (string, error) {
	spec := ""
	if colon := strings.IndexByte(item, ':'); colon >= 0 {
		spec = item[colon+1:]
		item = item[:colon]
	}
	if strings.ContainsRune(spec, '{') {
		return "", fmt.Errorf("unexpected '{' in format specifier %q", spec)
	}

	align := 0
	if comma := strings.IndexByte(item, ','); comma >= 0 {
		a, err := strconv.Atoi(strings.TrimSpace(item[comma+1:]))
		if err != nil {
			return "", fmt.Errorf("invalid alignment %q", item[comma+1:])
		}
		align = a
		item = item[:comma]
	}

	idx, err := strconv.Atoi(strings.TrimSpace(item))
	if err != nil || idx < 0 {
		return "", fmt.Errorf("invalid argument index %q", item)
	}
	if idx >= len(args) {
		return "", fmt.Errorf("argument index %d out of range, %d argument(s) supplied", idx, len(args))
	}

	var s string
	switch v := args[idx].(type) {
	case time.Time:
		s, err = FormatTime(v, spec)
		if err != nil {
			return "", err
		}
	case nil:
		s = ""
	default:
		s = fmt.Sprintf("%v", v)
	}

	return pad(s, align), nil
}

func pad(s string, align int) string {
	width := align
	if width < 0 {
		width = -width
	}
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	fill := strings.Repeat(" ", width-n)
	if align < 0 {
		return s + fill
	}
	return fill + s
}

func invalidFormat(format, msg string, args ...any) error {
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
		"invalid snapshot name format: "+fmt.Sprintf(msg, args...),
		map[string]any{"format": format})
}
