// Package sessioninfo implements the session-info cache (spec component
// C7): extracting a top-level key's subtree out of the shared region's
// metadata window, normalizing it into parseable text, parsing it with
// gopkg.in/yaml.v3, and memoizing per-key results until the region's
// update counter advances.
package sessioninfo

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// highByteSpace is the fixed byte-translation table: these five bytes are
// invalid under the simulator's declared code page and must not propagate.
var highByteSpace = map[byte]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

// Extract returns the raw bytes of the top-level key K's subtree inside
// window: starting at "K:\n" (the NL-prefixed marker without its leading
// NL) and running up to the next blank line, or, if no blank line follows,
// up to the first NUL byte (the end-of-document NUL run) or the end of
// window. Returns nil if K has no block in window.
func Extract(window []byte, key string) []byte {
	startPat := []byte("\n" + key + ":\n")
	idx := bytes.Index(window, startPat)
	if idx < 0 {
		return nil
	}
	rest := window[idx+1:]
	if end := bytes.Index(rest, []byte("\n\n")); end >= 0 {
		return rest[:end]
	}
	if nul := bytes.IndexByte(rest, 0); nul >= 0 {
		return rest[:nul]
	}
	return rest
}

func translateHighBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if highByteSpace[c] {
			out[i] = ' '
		} else {
			out[i] = c
		}
	}
	return out
}

func stripTrailingNuls(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

func decodeCP1252(b []byte) (string, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func isPrintable(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return true
	}
	if r < 0x20 || r == 0x7F {
		return false
	}
	return true
}

func stripNonPrintable(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isPrintable(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// driverInfoFieldRe matches the user-supplied fields in the DriverInfo
// block that need re-quoting because they often contain reserved YAML
// characters (quotes, backslashes).
var driverInfoFieldRe = regexp.MustCompile(`(?m)^((?:DriverSetupName|UserName|TeamName|AbbrevName|Initials): )(.*)$`)
var quoteOrBackslashRe = regexp.MustCompile(`["\\]`)

func escapeDriverInfoFields(s string) string {
	return driverInfoFieldRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := driverInfoFieldRe.FindStringSubmatch(m)
		prefix, value := sub[1], sub[2]
		escaped := quoteOrBackslashRe.ReplaceAllString(value, `\$0`)
		return prefix + `"` + escaped + `"`
	})
}

// commaValueRe matches "key: ,rest" lines the producer emits without
// quoting a list-like value.
var commaValueRe = regexp.MustCompile(`(?m)^(\w+: )(,.*)$`)

func rewrapCommaValues(s string) string {
	return commaValueRe.ReplaceAllString(s, `$1"$2"`)
}

// timestampValueRe matches an unquoted plain scalar value that go-yaml's
// resolver (resolve.go's yaml_timestamp pattern) would implicitly resolve
// to a time.Time: a bare date, or a date plus a time-of-day with an
// optional fractional second and zone offset. Values already quoted don't
// match (the leading `"` isn't in the character class), so this is safe
// to run unconditionally.
var timestampValueRe = regexp.MustCompile(`(?m)^(\s*[\w.]+:[ \t]+)(\d{4}-\d{1,2}-\d{1,2}([Tt ][ \t]*\d{1,2}:\d{2}:\d{2}(\.\d*)?([ \t]*(Z|[+-]\d{1,2}(:\d{2})?))?)?)[ \t]*$`)

func escapeTimestampLikeValues(s string) string {
	return timestampValueRe.ReplaceAllString(s, `$1"$2"`)
}

// Normalize turns raw extracted bytes into parser-ready YAML text: high
// byte translation, NUL stripping, cp1252 decoding, non-printable
// stripping, DriverInfo field re-quoting, timestamp-value quoting, and
// comma-value rewrap.
//
// Normalize is idempotent on its own output for every key except
// DriverInfo — re-escaping an already-quoted DriverInfo field would
// double the backslashes, so callers must only normalize raw bytes once.
func Normalize(raw []byte, key string) (string, error) {
	b := translateHighBytes(raw)
	b = stripTrailingNuls(b)
	s, err := decodeCP1252(b)
	if err != nil {
		return "", err
	}
	s = stripNonPrintable(s)
	if key == "DriverInfo" {
		s = escapeDriverInfoFields(s)
	}
	s = escapeTimestampLikeValues(s)
	s = rewrapCommaValues(s)
	return s, nil
}
