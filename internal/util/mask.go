// Package util tiene helpers chicos sin dependencias del dominio.
package util

import "strings"

// MaskEmail oculta un email para logs: "alice@example.com" -> "a…@e….com".
// Sin '@' conserva sólo el primer y el último carácter.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		r := []rune(s)
		if len(r) <= 3 {
			return "***"
		}
		return string(r[0]) + "…" + string(r[len(r)-1])
	}
	return maskHead(s[:at]) + "@" + maskDomain(s[at+1:])
}

func maskHead(part string) string {
	r := []rune(part)
	if len(r) <= 1 {
		return part
	}
	return string(r[0]) + "…"
}

func maskDomain(dom string) string {
	labels := strings.Split(dom, ".")
	labels[0] = maskHead(labels[0])
	return strings.Join(labels, ".")
}
