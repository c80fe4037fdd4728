package utils

import (
	"bytes"
	"encoding/json"
	"mime"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RedactedValue replaces secrets in logged data.
const RedactedValue = "[REDACTED]"

var (
	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based. This includes "text/*", "application/json", and
	// "application/samlmetadata+xml".
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile("^application/json$"),
		regexp.MustCompile(`^application/samlmetadata\+xml`),
	}

	// secretJSONFieldPattern matches JSON string fields that carry credentials, escaped quotes included.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	secretJSONFieldPattern = regexp.MustCompile(
		`"(password|passwordHash|idToken|refreshToken)"\s*:\s*"(?:[^"\\]|\\.)*"`)

	// secretQueryPattern matches the API key query parameter.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	secretQueryPattern = regexp.MustCompile(`([?&]key=)[^&\s]*`)
)

// IsFileExist checks if a file exists at the specified path.
// It returns true if the file exists and is not a directory, false if the file does not exist,
// and an error if there was an issue accessing the file.
func IsFileExist(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// IsTextContentType checks if the given content type represents a text-based format.
// It supports common text content types like "text/*", "application/json", and "application/samlmetadata+xml".
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}

// RedactSecrets masks the API key query parameter and credential fields
// (password, passwordHash, idToken, refreshToken) in a dump of an HTTP exchange.
func RedactSecrets(data string) string {
	data = secretQueryPattern.ReplaceAllString(data, "${1}"+RedactedValue)

	return secretJSONFieldPattern.ReplaceAllString(data, `"$1":"`+RedactedValue+`"`)
}

// PrettyJSON indents raw JSON with two spaces.
// Input that is not valid JSON is returned unchanged.
func PrettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}

	return buf.String()
}

// ParseUnixMillis parses a decimal string of milliseconds since the Unix epoch.
func ParseUnixMillis(value string) (time.Time, bool) {
	millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || millis <= 0 {
		return time.Time{}, false
	}

	return time.UnixMilli(millis), true
}
