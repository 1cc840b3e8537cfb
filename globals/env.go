// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package globals

import (
	"net/url"
	"regexp"
	"strings"
)

// Browser names.
const (
	Opera            = "Opera"
	Chrome           = "Chrome"
	Firefox          = "Firefox"
	MobileSafari     = "Mobile Safari"
	InternetExplorer = "Internet Explorer"
	Safari           = "Safari"
)

var browsers = [...]struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`Opera|OPR`), Opera},
	{regexp.MustCompile(`(?i)Chrome`), Chrome},
	{regexp.MustCompile(`(?i)Firefox`), Firefox},
	{regexp.MustCompile(`(?i)Mobile(/.*)? Safari`), MobileSafari},
	{regexp.MustCompile(`(?i)MSIE`), InternetExplorer},
	{regexp.MustCompile(`(?i)Safari`), Safari},
}

// browserOf identifies the browser from a user agent
// string. The first match wins, so the order of browsers
// matters (Chrome's user agent also names Safari).
func browserOf(ua string) string {
	if ua == "" {
		return ""
	}
	for _, b := range browsers {
		if b.re.MatchString(ua) {
			return b.name
		}
	}
	return ""
}

var mobile = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPad|iPod`)

func mobileOf(ua string) bool { return mobile.MatchString(ua) }

var truthy = regexp.MustCompile(`(?i)^(1|true|t|yes|y)$`)

// Bool interprets a query parameter value as a boolean.
func Bool(s string) bool { return truthy.MatchString(strings.TrimSpace(s)) }

// queryParam returns the value of key in the query q.
// A leading '?' is accepted. Malformed pairs are skipped.
func queryParam(q, key string) string {
	v, _ := url.ParseQuery(strings.TrimPrefix(q, "?"))
	return v.Get(key)
}
