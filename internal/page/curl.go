package page

import (
	"strings"

	"github.com/feyyazcankose/render-api-docs/internal/model"
)

const curlSeparator = " \\\n  "

// Curl renders the cURL snippet for a request. The authorization header is
// a placeholder the reader fills in.
func Curl(method model.Method, url string, bearer bool, body []byte) string {
	lines := []string{
		"curl --request " + string(method),
		"--url " + shellQuote(url),
	}
	if bearer {
		lines = append(lines, "--header "+shellQuote("Authorization: Bearer <token>"))
	}
	if len(body) > 0 {
		lines = append(lines,
			"--header "+shellQuote("Content-Type: "+model.MediaTypeJSON),
			"--data "+shellQuote(string(body)),
		)
	}
	return strings.Join(lines, curlSeparator)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
