// Package utils provides common utility functions.
package utils

import "strings"

// MaskKey masks an API key for safe logging. The provider prefix up to the
// last dash ("sk-", "sk-proj-") and the final four characters stay visible.
func MaskKey(key string) string {
	if key == "" {
		return "(empty)"
	}
	if len(key) < 16 {
		return "****"
	}
	prefix := ""
	if i := strings.LastIndex(key[:len(key)/2], "-"); i >= 0 {
		prefix = key[:i+1]
	}
	return prefix + "..." + key[len(key)-4:]
}
