// Package reply hands a drafted answer over to a mail client: either as a
// Gmail compose link or directly through an SMTP relay.
package reply

import (
	"net/url"
	"strings"
)

// DefaultSubject is used when the classified email had no subject
const DefaultSubject = "Re: Email"

const gmailComposeURL = "https://mail.google.com/mail/?view=cm&fs=1&to="

// Subject returns the subject line to reply with
func Subject(subject string) string {
	if s := strings.TrimSpace(subject); s != "" {
		return s
	}
	return DefaultSubject
}

// ComposeURL builds a Gmail compose link prefilled with subject and body
func ComposeURL(subject, body string) string {
	return gmailComposeURL + "&su=" + escape(Subject(subject)) + "&body=" + escape(body)
}

// componentUnescaper undoes the query-only escapes so the result matches
// encodeURIComponent: spaces as %20 and !'()* left as is
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func escape(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
