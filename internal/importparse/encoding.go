package importparse

import (
	"regexp"
	"strings"
)

// codingDeclPattern matches an encoding declaration comment: the name
// after "coding:" or "coding=" (covering "# coding: NAME" and the
// emacs-style "# -*- coding: NAME -*-" forms alike) is alphanumeric
// plus "-_.".
var codingDeclPattern = regexp.MustCompile(`coding[:=]\s*([A-Za-z0-9\-_.]+)`)

// DeclaredEncoding returns the encoding declared in the first two
// physical lines of source, or "utf-8" if none is declared. Only
// comment lines are considered.
func DeclaredEncoding(source []byte) string {
	lines := strings.SplitN(string(source), "\n", 3)
	for i := 0; i < len(lines) && i < 2; i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if m := codingDeclPattern.FindStringSubmatch(line); m != nil {
			return strings.ToLower(m[1])
		}
	}
	return "utf-8"
}

// DecodeSource converts source to UTF-8 according to its declared
// encoding. UTF-8 and ASCII sources pass through unchanged; the
// latin-1 family is transcoded byte by byte. Unrecognized encoding
// names fall back to UTF-8 passthrough.
func DecodeSource(source []byte) []byte {
	switch DeclaredEncoding(source) {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1", "cp1252":
		if isASCII(source) {
			return source
		}
		runes := make([]rune, len(source))
		for i, b := range source {
			runes[i] = rune(b)
		}
		return []byte(string(runes))
	default:
		return source
	}
}

func isASCII(source []byte) bool {
	for _, b := range source {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
