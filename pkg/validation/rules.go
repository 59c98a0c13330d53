// pkg/validation/rules.go
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidInput is the root of every validation failure.
var ErrInvalidInput = errors.New("invalid input provided")

// Rule is the whitelist contract for one input field.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Requires []*regexp.Regexp // additional patterns that must each match somewhere in the value
	Sanitize bool
	Optional bool
	Hint     string
}

// FieldError reports a single rejected field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// Match reports whether an already-cleaned value satisfies the rule.
func (r *Rule) Match(value string) bool {
	if !r.Pattern.MatchString(value) {
		return false
	}
	for _, req := range r.Requires {
		if !req.MatchString(value) {
			return false
		}
	}
	return true
}

// Clean sanitizes raw (when the rule asks for it) and validates the result.
// An empty optional field yields "" and no error.
func (r *Rule) Clean(raw string) (string, error) {
	value := raw
	if r.Sanitize {
		value = Sanitize(raw)
	}
	if value == "" {
		if r.Optional {
			return "", nil
		}
		return "", &FieldError{Field: r.Name, Reason: "is required"}
	}
	if !r.Match(value) {
		return "", &FieldError{Field: r.Name, Reason: r.Hint}
	}
	return value, nil
}

var (
	FullName = &Rule{
		Name:     "fullName",
		Pattern:  regexp.MustCompile(`^[A-Za-z\s.'-]{2,100}$`),
		Sanitize: true,
		Hint:     "must be 2-100 letters, spaces, dots, apostrophes or hyphens",
	}
	IDNumber = &Rule{
		Name:     "idNumber",
		Pattern:  regexp.MustCompile(`^\d{13}$`),
		Sanitize: true,
		Hint:     "must be exactly 13 digits",
	}
	AccountNumber = &Rule{
		Name:     "accountNumber",
		Pattern:  regexp.MustCompile(`^\d{8,20}$`),
		Sanitize: true,
		Hint:     "must be 8-20 digits",
	}
	Password = &Rule{
		Name:    "password",
		Pattern: regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{12,128}$`),
		Requires: []*regexp.Regexp{
			regexp.MustCompile(`[a-z]`),
			regexp.MustCompile(`[A-Z]`),
			regexp.MustCompile(`\d`),
			regexp.MustCompile(`[@$!%*?&]`),
		},
		Hint: "must be 12-128 characters with upper and lower case letters, a digit and one of @$!%*?&",
	}
	Email = &Rule{
		Name:     "email",
		Pattern:  regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
		Sanitize: true,
		Optional: true,
		Hint:     "must be a valid email address",
	}
	Phone = &Rule{
		Name:     "phone",
		Pattern:  regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`),
		Sanitize: true,
		Optional: true,
		Hint:     "must be up to 16 digits",
	}
	Amount = &Rule{
		Name:     "amount",
		Pattern:  regexp.MustCompile(`^\d{1,12}(\.\d{1,2})?$`),
		Sanitize: true,
		Hint:     "must have 1-12 integer digits and at most 2 decimals",
	}
	Currency = &Rule{
		Name:     "currency",
		Pattern:  regexp.MustCompile(`^[A-Z]{3}$`),
		Sanitize: true,
		Hint:     "must be a 3-letter uppercase code",
	}
	Provider = &Rule{
		Name:     "provider",
		Pattern:  regexp.MustCompile(`^[A-Za-z0-9\s.-]{2,50}$`),
		Sanitize: true,
		Hint:     "must be 2-50 letters, digits, spaces, dots or hyphens",
	}
	SWIFT = &Rule{
		Name:     "swift",
		Pattern:  regexp.MustCompile(`^[A-Z0-9]{8,11}$`),
		Sanitize: true,
		Hint:     "must be 8-11 uppercase letters or digits",
	}
	PayeeAccount = &Rule{
		Name:     "payeeAccount",
		Pattern:  regexp.MustCompile(`^\d{6,22}$`),
		Sanitize: true,
		Hint:     "must be 6-22 digits",
	}
	PayeeName = &Rule{
		Name:     "payeeName",
		Pattern:  FullName.Pattern,
		Sanitize: true,
		Optional: true,
		Hint:     FullName.Hint,
	}
	Description = &Rule{
		Name:     "description",
		Pattern:  regexp.MustCompile(`^[A-Za-z0-9\s.,!?@#$%&*()-]{0,200}$`),
		Sanitize: true,
		Optional: true,
		Hint:     "must be at most 200 letters, digits or common punctuation",
	}
	Identifier = &Rule{
		Name:     "id",
		Pattern:  regexp.MustCompile(`^[A-Za-z0-9_-]{10,36}$`),
		Sanitize: true,
		Hint:     "must be 10-36 letters, digits, dashes or underscores",
	}
	SessionID = &Rule{
		Name:    "sessionId",
		Pattern: regexp.MustCompile(`^[A-Za-z0-9_-]{20,50}$`),
		Hint:    "must be 20-50 letters, digits, dashes or underscores",
	}
)

// All lists every rule in schema order.
var All = []*Rule{
	FullName, IDNumber, AccountNumber, Password, Email, Phone,
	Amount, Currency, Provider, SWIFT, PayeeAccount, PayeeName, Description,
	Identifier, SessionID,
}

// Errors collects field failures. It matches ErrInvalidInput under errors.Is.
type Errors struct {
	Fields []*FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *Errors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validator cleans several fields and accumulates their failures.
type Validator struct {
	fields []*FieldError
}

// Field cleans raw with r and records any failure.
func (v *Validator) Field(r *Rule, raw string) string {
	out, err := r.Clean(raw)
	var fe *FieldError
	if errors.As(err, &fe) {
		v.fields = append(v.fields, fe)
	}
	return out
}

// Err returns nil when every field passed.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &Errors{Fields: v.fields}
}
