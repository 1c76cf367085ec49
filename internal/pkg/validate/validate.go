package validate

import (
	"net/mail"
	"net/url"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MaxLen(value string, n int) bool {
	return len([]rune(strings.TrimSpace(value))) <= n
}

// Email accepts a bare address. Display-name forms are rejected.
func Email(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return false
	}
	return addr.Address == trimmed && addr.Name == ""
}

// HTTPURL reports whether value is an absolute http(s) URL. Empty is invalid.
func HTTPURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
