package utils

import (
	"net/url"
	"strings"
)

// EncodeURLWithSpaces properly encodes a URL that may contain unencoded spaces.
// Some external services provide URLs with raw spaces which need to be %20 encoded for HTTP.
func EncodeURLWithSpaces(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	// Build URL with properly encoded path and query
	encoded := parsedURL.Scheme + "://" + parsedURL.Host + parsedURL.EscapedPath()
	if parsedURL.RawQuery != "" {
		// Encode spaces in query string as %20
		encodedQuery := strings.ReplaceAll(parsedURL.RawQuery, " ", "%20")
		encoded += "?" + encodedQuery
	}
	return encoded, nil
}

// FillSearchURL substitutes {q} in a search URL template with the
// query-escaped term. Templates without {q} get nothing appended.
func FillSearchURL(template, term string) string {
	term = strings.Join(strings.Fields(term), " ")
	return strings.ReplaceAll(template, "{q}", url.QueryEscape(term))
}
