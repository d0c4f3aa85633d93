package calculator

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// Terms are joined by any of "+", "&" or ";".
	termSeparator = regexp.MustCompile(`\s*[+&;]\s*`)
	// Within a term, "-" or "\" starts a subtraction.
	minusSeparator = regexp.MustCompile(`\s*[-\\]\s*`)
)

// ResolveRecipients computes the people a payment was made for.
//
// The expression is a list of terms separated by "+", "&" or ";". The first
// "-" or "\" separated piece of a term is added, the remaining pieces are
// subtracted. A piece naming a group in groups is replaced by the group's
// members; anything else is a person name. The result is sorted and
// deduplicated.
//
//	ResolveRecipients("Doris + Ice Cream - Bob", groups) // [Alice Doris]
func ResolveRecipients(expression string, groups models.GroupTable) ([]string, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, &ExpressionError{Expression: expression, Err: ErrRecipientExpressionInvalid}
	}

	var add, subtract []string
	for _, term := range termSeparator.Split(trimmed, -1) {
		pieces := minusSeparator.Split(term, -1)
		for _, p := range pieces {
			if p == "" {
				return nil, &ExpressionError{Expression: expression, Err: ErrRecipientExpressionInvalid}
			}
		}
		add = append(add, pieces[0])
		subtract = append(subtract, pieces[1:]...)
	}

	recipients := expandGroups(add, groups)
	for name := range expandGroups(subtract, groups) {
		delete(recipients, name)
	}
	if len(recipients) == 0 {
		return nil, &ExpressionError{Expression: expression, Err: ErrNoRecipients}
	}

	out := make([]string, 0, len(recipients))
	for name := range recipients {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// expandGroups replaces group names by their members.
func expandGroups(tokens []string, groups models.GroupTable) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if !groups.Has(token) {
			set[token] = struct{}{}
			continue
		}
		for _, member := range groups.Members(token) {
			if member = strings.TrimSpace(member); member != "" {
				set[member] = struct{}{}
			}
		}
	}
	return set
}
