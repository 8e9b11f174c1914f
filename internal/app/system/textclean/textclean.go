// internal/app/system/textclean/textclean.go
package textclean

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Clean strips all HTML from user-supplied text (group names, descriptions,
// goal text, dispute reasons) and trims surrounding whitespace. Stored text
// is rendered verbatim by the presentation client.
func Clean(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
