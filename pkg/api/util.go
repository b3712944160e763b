package api

import (
	"net/url"
	"strings"
)

// PercentEncode escapes a form value with %20 for spaces. OAuth token
// endpoints reject the + form inside refresh tokens.
func PercentEncode(s string) string {
	s = url.QueryEscape(s)
	return strings.ReplaceAll(s, "+", "%20")
}
