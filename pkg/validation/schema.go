// pkg/validation/schema.go
package validation

// RuleSchema is the wire form of a Rule, served to clients so they validate
// with exactly the same patterns as the server.
type RuleSchema struct {
	Name      string   `json:"name"`
	Pattern   string   `json:"pattern"`
	Requires  []string `json:"requires,omitempty"`
	Sanitized bool     `json:"sanitized"`
	Optional  bool     `json:"optional"`
	Hint      string   `json:"hint"`
}

// Schema exports every rule.
func Schema() []RuleSchema {
	out := make([]RuleSchema, 0, len(All))
	for _, r := range All {
		rs := RuleSchema{
			Name:      r.Name,
			Pattern:   r.Pattern.String(),
			Sanitized: r.Sanitize,
			Optional:  r.Optional,
			Hint:      r.Hint,
		}
		for _, req := range r.Requires {
			rs.Requires = append(rs.Requires, req.String())
		}
		out = append(out, rs)
	}
	return out
}
