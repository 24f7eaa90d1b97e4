package parser

import "strings"

// maxNarration is the longest narration Tally accepts on a voucher.
const maxNarration = 100

// narrationRule rewrites a raw remark into a short description.
// ok is false when the rule does not apply and the next rule should be tried.
type narrationRule struct {
	name  string
	apply func(remarks string) (narration string, ok bool)
}

// narrationRules run in order; the first applicable rule wins.
var narrationRules = []narrationRule{
	{name: "upi", apply: upiNarration},
	{name: "interest", apply: interestNarration},
	{name: "neft", apply: neftNarration},
}

// Classify turns bank remarks into a short narration such as "UPI - note",
// "Interest Credited" or "NEFT - <ref>". Remarks no rule understands are
// returned unchanged.
func Classify(remarks string) string {
	for _, rule := range narrationRules {
		if n, ok := rule.apply(remarks); ok {
			return n
		}
	}
	return remarks
}

// upiNarration claims every remark containing "/UPI/". Remarks with fewer
// than four non-empty segments are claimed but left as they are.
func upiNarration(remarks string) (string, bool) {
	if !strings.Contains(remarks, "/UPI/") {
		return "", false
	}
	var parts []string
	for _, p := range strings.Split(remarks, "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 4 {
		return remarks, true
	}
	return parts[0] + " - " + parts[len(parts)-1], true
}

func interestNarration(remarks string) (string, bool) {
	if strings.Contains(remarks, ":") && strings.Contains(remarks, "Int.Pd") {
		return "Interest Credited", true
	}
	return "", false
}

func neftNarration(remarks string) (string, bool) {
	if !strings.Contains(remarks, "NEFT") {
		return "", false
	}
	tokens := strings.Fields(remarks)
	return "NEFT - " + tokens[len(tokens)-1], true
}
