package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

var emailFolder = cases.Fold()

// NormalizeEmail trims and case-folds an email address so lookups and the
// unique index agree on a single representation.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}
