package interpolate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cuemby/komodo-core/pkg/komodo"
)

// tokenPattern matches `[[name]]` with names in [A-Za-z0-9_]+.
var tokenPattern = regexp.MustCompile(`\[\[([A-Za-z0-9_]+)\]\]`)

// Replacer is a (value, placeholder) pair used to sanitise a value out
// of logs by substituting its placeholder back in.
type Replacer struct {
	Value       string
	Placeholder string
}

// Sanitize replaces every occurrence of each replacer's Value with its
// Placeholder in text, in the given order. Used to scrub secret values
// (and access tokens) out of command/stdout/stderr before a Log is
// returned to a caller.
func Sanitize(text string, replacers []Replacer) string {
	for _, r := range replacers {
		if r.Value == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Value, r.Placeholder)
	}
	return text
}

// Interpolator expands `[[name]]` tokens against one resource's
// vars-and-secrets map, accumulating replacer sets across however many
// text slots are expanded against it.
type Interpolator struct {
	vars       map[string]komodo.Variable
	global     []Replacer
	secret     []Replacer
	usedVar    []string // (name) in first-use order, for the summary log
	usedSecret []string
	seen       map[string]bool
}

// New builds an Interpolator over the given variables (which may
// include secrets; IsSecret distinguishes them).
func New(vars []komodo.Variable) *Interpolator {
	m := make(map[string]komodo.Variable, len(vars))
	for _, v := range vars {
		m[v.Name] = v
	}
	return &Interpolator{vars: m, seen: make(map[string]bool)}
}

// Expand substitutes every `[[name]]` token in text. Unknown names fail
// with an error the caller should surface as kerrors.InterpolateUnknown,
// aborting the whole operation.
func (i *Interpolator) Expand(text string) (string, error) {
	var expandErr error
	result := tokenPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if expandErr != nil {
			return tok
		}
		name := tokenPattern.FindStringSubmatch(tok)[1]
		v, ok := i.vars[name]
		if !ok {
			expandErr = fmt.Errorf("unknown variable or secret: %s", name)
			return tok
		}
		i.record(v, tok)
		return v.Value
	})
	if expandErr != nil {
		return "", expandErr
	}
	return result, nil
}

// ExpandSlice expands every element of texts in order.
func (i *Interpolator) ExpandSlice(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for idx, t := range texts {
		expanded, err := i.Expand(t)
		if err != nil {
			return nil, err
		}
		out[idx] = expanded
	}
	return out, nil
}

func (i *Interpolator) record(v komodo.Variable, placeholder string) {
	r := Replacer{Value: v.Value, Placeholder: placeholder}
	i.global = append(i.global, r)
	if v.IsSecret {
		i.secret = append(i.secret, r)
	}
	if !i.seen[v.Name] {
		i.seen[v.Name] = true
		if v.IsSecret {
			i.usedSecret = append(i.usedSecret, v.Name)
		} else {
			i.usedVar = append(i.usedVar, v.Name)
		}
	}
}

// GlobalReplacers returns the (value -> placeholder) pairs for every
// variable or secret substituted so far, for sanitising logs shown to
// humans.
func (i *Interpolator) GlobalReplacers() []Replacer { return i.global }

// SecretReplacers returns only the secret substitutions, the subset
// also forwarded to Periphery so it can redact values before logging
// them back to Core.
func (i *Interpolator) SecretReplacers() []Replacer { return i.secret }

// SummaryLog builds an update log entry listing the (var-name,
// placeholder) pairs for variables and (secret-name) for secrets,
// never values.
func (i *Interpolator) SummaryLog() komodo.Log {
	var b strings.Builder
	for _, name := range i.usedVar {
		fmt.Fprintf(&b, "%s -> [[%s]]\n", name, name)
	}
	for _, name := range i.usedSecret {
		fmt.Fprintf(&b, "%s (secret)\n", name)
	}
	return komodo.SimpleLog("interpolation", strings.TrimRight(b.String(), "\n"))
}
