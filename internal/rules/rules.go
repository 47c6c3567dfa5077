// Package rules implements password-template rules: an ordered, id-keyed
// list of small building blocks, each evaluated against the credential being
// generated for and concatenated into a password.
package rules

import (
	"strings"

	"github.com/google/uuid"
)

// Kind identifies a rule variant.
type Kind string

const (
	// KindServiceName takes characters from the credential's service name.
	KindServiceName Kind = "from-service-name"

	// KindUsername takes characters from the credential's username.
	KindUsername Kind = "from-username"

	// KindFixed inserts a fixed string verbatim.
	KindFixed Kind = "fixed-string"
)

// Input is what rules evaluate against.
type Input struct {
	ServiceName string
	Username    string
}

// Rule is one password-template building block. The tagged-union shape keeps
// evaluation a pure function per variant; ID is stable so the list can be
// reordered without losing track of a rule.
type Rule struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Length caps how many characters a service-name or username rule
	// takes; zero means all of them. Ignored for fixed strings.
	Length int `json:"length,omitempty"`

	// Value is the literal text of a fixed-string rule.
	Value string `json:"value,omitempty"`
}

// NewServiceNameRule builds a from-service-name rule taking up to length
// characters.
func NewServiceNameRule(length int) Rule {
	return Rule{ID: uuid.New().String(), Kind: KindServiceName, Length: length}
}

// NewUsernameRule builds a from-username rule taking up to length characters.
func NewUsernameRule(length int) Rule {
	return Rule{ID: uuid.New().String(), Kind: KindUsername, Length: length}
}

// NewFixedRule builds a fixed-string rule.
func NewFixedRule(value string) Rule {
	return Rule{ID: uuid.New().String(), Kind: KindFixed, Value: value}
}

// Evaluate returns the rule's contribution for the given input. Unknown
// kinds contribute nothing.
func (r Rule) Evaluate(in Input) string {
	switch r.Kind {
	case KindServiceName:
		return take(in.ServiceName, r.Length)
	case KindUsername:
		return take(in.Username, r.Length)
	case KindFixed:
		return r.Value
	default:
		return ""
	}
}

func take(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || n >= len(runes) {
		return s
	}
	return string(runes[:n])
}

// Password evaluates every rule in order and concatenates the results.
func Password(list []Rule, in Input) string {
	var b strings.Builder
	for _, r := range list {
		b.WriteString(r.Evaluate(in))
	}
	return b.String()
}

// Move relocates the rule with the given id to index and returns the
// reordered list. An unknown id or out-of-range index leaves the order
// unchanged.
func Move(list []Rule, id string, index int) []Rule {
	from := -1
	for i, r := range list {
		if r.ID == id {
			from = i
			break
		}
	}
	if from < 0 || index < 0 || index >= len(list) {
		return list
	}

	out := make([]Rule, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	out = append(out[:index], append([]Rule{list[from]}, out[index:]...)...)
	return out
}
