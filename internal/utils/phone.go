package utils

import "strings"

// DefaultCountryPrefix is used for numbers written in local format.
const DefaultCountryPrefix = "+255"

// NormalizePhone returns phone in international format. Numbers without a
// leading '+' are assumed local: one leading trunk zero is dropped and
// prefix is prepended.
func NormalizePhone(phone, prefix string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	if prefix == "" {
		prefix = DefaultCountryPrefix
	}
	return prefix + strings.TrimPrefix(phone, "0")
}
