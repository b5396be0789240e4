package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Initials builds a two letter avatar label from the user's names.
func Initials(firstName, lastName, username string) string {
	first, _ := utf8.DecodeRuneInString(firstName)
	last, _ := utf8.DecodeRuneInString(lastName)
	if firstName != "" && lastName != "" {
		return strings.ToUpper(string(first) + string(last))
	}
	return strings.ToUpper(Truncate(username, 2))
}
