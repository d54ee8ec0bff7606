package config

import (
	"os"
	"strings"
)

// ParseKeyValue parses flat key=value lines. Lines without "=", blank keys
// and # comments are skipped; one layer of matching quotes is stripped from
// values. Returns nil when nothing was parsed.
func ParseKeyValue(data []byte) map[string]string {
	var out map[string]string

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if out == nil {
			out = make(map[string]string)
		}
		out[key] = unquote(strings.TrimSpace(value))
	}

	return out
}

// LoadKeyValue reads and parses a key=value file. An unreadable file
// yields nil.
func LoadKeyValue(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return ParseKeyValue(data)
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
