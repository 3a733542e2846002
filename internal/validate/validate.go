// Package validate is the request validation gate.
//
// A Schema is an explicit, ordered list of rules. Each rule names a field, a
// predicate, and the message reported when the predicate fails:
//
//	var createItem = validate.Schema{
//	    Rules: []validate.Rule{
//	        validate.NotEmpty("name"),
//	        validate.IsString("name"),
//	        validate.IsString("description"),
//	    },
//	    Policy: validate.Forbid,
//	}
//
// Validate runs every rule (it does not stop at the first failure) so the
// client gets the whole list of problems in one response. The order of the
// messages is the order the rules were declared in.
//
// The set of declared fields is derived from the rules. Anything else in the
// input is extraneous: under Strip it is silently dropped, under Forbid each
// extraneous field adds its own violation.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/crudauth/internal/apperror"
)

// Policy decides what happens to fields that no rule declares.
type Policy int

const (
	// Strip removes undeclared fields from the sanitized record. Every
	// request schema in this service uses Forbid; Strip is for callers that
	// want whitelisting without rejection.
	Strip Policy = iota
	// Forbid rejects the whole record when undeclared fields are present.
	Forbid
)

// Check reports whether a field value satisfies a constraint.
// present is false when the key is missing from the input entirely.
type Check func(v any, present bool) bool

// Rule is one {field, predicate, message} triple.
type Rule struct {
	Field   string
	Check   Check
	Message string
}

// Schema is the declared shape of a request body.
type Schema struct {
	Rules  []Rule
	Policy Policy
}

// Fields returns the declared field names in first-declared order.
func (s Schema) Fields() []string {
	seen := make(map[string]bool, len(s.Rules))
	fields := make([]string, 0, len(s.Rules))
	for _, r := range s.Rules {
		if !seen[r.Field] {
			seen[r.Field] = true
			fields = append(fields, r.Field)
		}
	}
	return fields
}

// Errors is the structured rejection produced by the gate.
// It unwraps to apperror.ErrValidation so generic error mapping still works.
type Errors struct {
	Messages []string
}

func (e *Errors) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *Errors) Unwrap() error {
	return apperror.ErrValidation
}

// Validate checks input against s. On success it returns a new map holding
// only the declared fields that were present. On failure it returns a
// *Errors with one message per failing rule, followed by one message per
// extraneous field when the policy is Forbid.
func Validate(input map[string]any, s Schema) (map[string]any, error) {
	if input == nil {
		input = map[string]any{}
	}

	var messages []string
	for _, r := range s.Rules {
		v, ok := input[r.Field]
		if !r.Check(v, ok) {
			messages = append(messages, r.Message)
		}
	}

	declared := make(map[string]bool)
	for _, f := range s.Fields() {
		declared[f] = true
	}

	if s.Policy == Forbid {
		// map iteration order is random; sort so responses are stable
		var extra []string
		for k := range input {
			if !declared[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			messages = append(messages, fmt.Sprintf("property %s should not exist", k))
		}
	}

	if len(messages) > 0 {
		return nil, &Errors{Messages: messages}
	}

	clean := make(map[string]any, len(declared))
	for k, v := range input {
		if declared[k] {
			clean[k] = v
		}
	}
	return clean, nil
}

// Decode reads a JSON object from r, runs it through the gate, and decodes
// the sanitized record into dst. An empty body is treated as {} so the
// client sees the usual "should not be empty" messages instead of a parse
// error.
//
// The body must be exactly one JSON object. Anything after it is a 400. A
// reader wrapped in http.MaxBytesReader that hits its limit yields
// apperror.PayloadTooLarge instead.
func Decode(r io.Reader, s Schema, dst any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		if tooLarge := asTooLarge(err); tooLarge != nil {
			return tooLarge
		}
		return &Errors{Messages: []string{"request body must be a JSON object"}}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if tooLarge := asTooLarge(err); tooLarge != nil {
			return tooLarge
		}
		return &Errors{Messages: []string{"request body must contain a single JSON object"}}
	}

	clean, err := Validate(raw, s)
	if err != nil {
		return err
	}

	b, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("validate: re-encoding sanitized record: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("validate: decoding sanitized record: %w", err)
	}
	return nil
}

func asTooLarge(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return apperror.PayloadTooLarge(fmt.Sprintf("request body must be %d bytes or fewer", mbe.Limit))
	}
	return nil
}

// =========================================================================
// BUILT-IN RULES
// =========================================================================

// engine runs the single-value constraints ("required", "email", "min=n",
// "max=n"). validator.New caches parsed tags, so one instance is shared by
// every rule. It is safe for concurrent use.
var engine = validator.New(validator.WithRequiredStructEnabled())

// check runs one validator tag against a string value.
func check(s string, tag string) bool {
	return engine.Var(s, tag) == nil
}

// NotEmpty fails for a missing field, null, or the empty string.
func NotEmpty(field string) Rule {
	return Rule{
		Field:   field,
		Message: field + " should not be empty",
		Check: func(v any, present bool) bool {
			if !present || v == nil {
				return false
			}
			if s, ok := v.(string); ok {
				return check(s, "required")
			}
			return true
		},
	}
}

// IsString fails unless the value is a JSON string.
func IsString(field string) Rule {
	return Rule{
		Field:   field,
		Message: field + " must be a string",
		Check: func(v any, _ bool) bool {
			_, ok := v.(string)
			return ok
		},
	}
}

// IsEmail fails unless the value is a bare address like "ram@example.com".
// The domain must contain a dot, so "ram@localhost" is rejected.
//
// No schema in this service collects addresses yet; the rule is part of the
// gate's vocabulary alongside the length and type checks.
func IsEmail(field string) Rule {
	return Rule{
		Field:   field,
		Message: field + " must be an email",
		Check: func(v any, _ bool) bool {
			s, ok := v.(string)
			if !ok || !check(s, "email") {
				return false
			}
			at := strings.LastIndexByte(s, '@')
			return at > 0 && strings.Contains(s[at+1:], ".")
		},
	}
}

// MinLength fails unless the value is a string of at least n characters
// (runes, not bytes).
func MinLength(field string, n int) Rule {
	tag := fmt.Sprintf("min=%d", n)
	return Rule{
		Field:   field,
		Message: fmt.Sprintf("%s must be longer than or equal to %d characters", field, n),
		Check: func(v any, _ bool) bool {
			s, ok := v.(string)
			return ok && check(s, tag)
		},
	}
}

// MaxLength fails unless the value is a string of at most n characters.
func MaxLength(field string, n int) Rule {
	tag := fmt.Sprintf("max=%d", n)
	return Rule{
		Field:   field,
		Message: fmt.Sprintf("%s must be shorter than or equal to %d characters", field, n),
		Check: func(v any, _ bool) bool {
			s, ok := v.(string)
			return ok && check(s, tag)
		},
	}
}

// IsInt fails unless the value is a whole number.
func IsInt(field string) Rule {
	return Rule{
		Field:   field,
		Message: field + " must be an integer number",
		Check: func(v any, _ bool) bool {
			switch n := v.(type) {
			case json.Number:
				_, err := n.Int64()
				return err == nil
			case float64:
				return n == math.Trunc(n) && !math.IsInf(n, 0)
			case int, int32, int64:
				return true
			}
			return false
		},
	}
}

// Optional wraps r so that it passes when the field is absent or null.
// Used by partial-update schemas.
func Optional(r Rule) Rule {
	inner := r.Check
	r.Check = func(v any, present bool) bool {
		if !present || v == nil {
			return true
		}
		return inner(v, present)
	}
	return r
}
