package weather

import "regexp"

// zipPattern matches the 5-digit part of a US ZIP code, alone or followed by
// a +4 extension.
var zipPattern = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\b`)

// ExtractZip returns the last 5-digit ZIP code found in address, or "" when
// there is none. Street numbers usually come before the ZIP, so the last
// match wins. A nil address is an ErrInvalidInput failure; an empty one is not.
func ExtractZip(address *string) (string, error) {
	if address == nil {
		return "", Fail(ErrInvalidInput, "address is required")
	}

	matches := zipPattern.FindAllStringSubmatch(*address, -1)
	if len(matches) == 0 {
		return "", nil
	}
	return matches[len(matches)-1][1], nil
}

// ZipOf is ExtractZip for callers that already hold a non-nil address.
func ZipOf(address string) string {
	zip, _ := ExtractZip(&address)
	return zip
}
