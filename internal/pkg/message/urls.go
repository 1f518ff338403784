// Package message implements the HTML chat body builder of spec §4.6:
// a static/dynamic split with a TTL-and-capacity-bounded cache over the
// static parts, grounded on original_source's
// infrastructure/messaging/message_formatter.py.
package message

import "strings"

// urlAdjustments is the per-bookmaker deep-link rewrite table (spec
// §4.6: "replacing regional subpaths"). Unknown bookmakers pass through
// unchanged.
var urlAdjustments = map[string]func(string) string{
	"bookmaker-ru":  func(u string) string { return strings.Replace(u, "/ru/", "/en/", 1) },
	"bookmaker-int": func(u string) string { return u },
}

// adjustURL applies bookmakerID's rewrite rule to link, if one is
// registered.
func adjustURL(bookmakerID, link string) string {
	if fn, ok := urlAdjustments[bookmakerID]; ok {
		return fn(link)
	}
	return link
}
