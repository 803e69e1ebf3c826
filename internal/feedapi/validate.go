package feedapi

import (
	"net/url"
	"regexp"
	"strings"
)

const maxFeedURLLength = 2048

// schemePrefix matches an explicit scheme at the start of the input only, so
// a URL nested in the query does not count.
var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// EmptyURLMessage is shown when the add input is blank.
const EmptyURLMessage = "Please enter a valid URL"

// ValidateFeedURL trims raw, defaults a missing scheme to https and checks
// that the result is an absolute http(s) URL with a host. The returned URL
// is what gets sent to the service.
func ValidateFeedURL(raw string) (string, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return "", NewValidationError(EmptyURLMessage)
	}
	if len(input) > maxFeedURLLength {
		return "", NewValidationError("Invalid URL: too long")
	}
	if strings.ContainsAny(input, " <>\"'`") {
		return "", NewValidationError("Invalid URL: contains invalid characters")
	}
	if !schemePrefix.MatchString(input) {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", NewValidationError("Invalid URL: malformed")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", NewValidationError("Invalid URL: must use http or https")
	}
	if parsed.Hostname() == "" {
		return "", NewValidationError("Invalid URL: missing host")
	}
	return input, nil
}
