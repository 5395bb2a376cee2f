package vkboot

import "strings"

// safeString NUL-terminates s for the runtime's C strings.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// trimString drops the terminator added by safeString.
func trimString(s string) string {
	return strings.TrimRight(s, "\x00")
}
