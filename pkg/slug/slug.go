package slug

import (
	"regexp"
	"strings"

	"github.com/rilsonjoas/alternativas-br-sub001/pkg/textfold"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name. Accented
// Portuguese letters are folded to their ASCII base letter.
//
// Examples:
//   - "Gestão Financeira" → "gestao-financeira"
//   - "Automação de Marketing" → "automacao-de-marketing"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	s := strings.ToLower(textfold.RemoveAccents(strings.TrimSpace(name)))

	// Runs of anything that is not a letter or digit become one hyphen.
	s = slugRegexp.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
