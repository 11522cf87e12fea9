package state

import (
	"fmt"
	"net/url"
)

// Query parameter names for the two locator variants.
const (
	QueryParamInline = "s"
	QueryParamRef    = "b"
)

// Locator is a URL-embeddable reference to a token. Exactly one variant is
// active: inline carries the full token, reference carries a short identifier
// resolvable through a bookmark store.
type Locator struct {
	Token Token
	Ref   string
}

func InlineLocator(t Token) Locator {
	return Locator{Token: t}
}

func RefLocator(id string) Locator {
	return Locator{Ref: id}
}

func (l Locator) Inline() bool {
	return l.Ref == ""
}

// URL renders the locator onto the application base URL as a percent-encoded
// query component.
func (l Locator) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	if l.Inline() {
		q.Set(QueryParamInline, string(l.Token))
	} else {
		q.Set(QueryParamRef, l.Ref)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// LocatorFromURL detects a bookmark locator in a visited URL. The reference
// variant wins when both parameters are present.
func LocatorFromURL(raw string) (Locator, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, false
	}
	q := u.Query()
	if id := q.Get(QueryParamRef); id != "" {
		return RefLocator(id), true
	}
	if token := q.Get(QueryParamInline); token != "" {
		return InlineLocator(Token(token)), true
	}
	return Locator{}, false
}
