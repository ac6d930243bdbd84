package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotSelect rejects manual queries that do not start with SELECT.
var ErrNotSelect = errors.New("only SELECT queries are allowed")

// ForbiddenKeywordError rejects manual queries containing a denylisted
// keyword. The keyword is exposed so the client sees which rule fired; the
// denylist itself is public policy.
type ForbiddenKeywordError struct {
	Keyword string
}

func (e *ForbiddenKeywordError) Error() string {
	return fmt.Sprintf("query contains forbidden keyword: %s", e.Keyword)
}

// forbiddenKeywords is checked in order, as substrings of the uppercased
// query, before the SELECT-prefix check.
var forbiddenKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE",
}

// ValidateManualQuery applies the read-only policy to a user-submitted query.
//
// This is a best-effort substring heuristic, not a SQL parser: it does not
// understand comments, string literals, keyword obfuscation or multi-statement
// batches, and it cannot distinguish a keyword from the same letters inside an
// identifier. These gaps are documented, observable behavior; callers must not
// rely on it as a sound authorization boundary. Replacing it with a real
// single-statement read-only parser is a known hardening opportunity.
func ValidateManualQuery(raw string) error {
	upper := strings.ToUpper(raw)

	for _, kw := range forbiddenKeywords {
		if strings.Contains(upper, kw) {
			return &ForbiddenKeywordError{Keyword: kw}
		}
	}

	if !strings.HasPrefix(strings.TrimSpace(upper), "SELECT") {
		return ErrNotSelect
	}

	return nil
}
