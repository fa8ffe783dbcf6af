// Package stage defines the hook passes and runs them through the hook runner.
//
// A stage is one pre-commit invocation bound to one configuration file.
// Stages always run one after another in Order so later stages see the
// files rewritten by the autofix stage.
package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/raphi011/pre-commit-vauxoo/internal/pathset"
)

// Name identifies a stage.
type Name string

const (
	Fix          Name = "fix"
	Mandatory    Name = "mandatory"
	Optional     Name = "optional"
	Experimental Name = "experimental"
)

// Policy says whether a stage's status counts toward the exit status.
type Policy int

const (
	// Always counts.
	Always Policy = iota
	// Strict counts only when optional failures are enabled.
	Strict
	// Never counts.
	Never
)

// String returns the policy as shown in summaries.
func (p Policy) String() string {
	switch p {
	case Always:
		return "always"
	case Strict:
		return "with --fail-optional"
	default:
		return "never"
	}
}

// Stage binds a name to its configuration file and policy.
type Stage struct {
	Name       Name
	Label      string
	ConfigFile string
	Policy     Policy
}

// Counts reports whether the stage's status is added to the exit status.
func (s Stage) Counts(failOptional bool) bool {
	switch s.Policy {
	case Always:
		return true
	case Strict:
		return failOptional
	default:
		return false
	}
}

// Order lists every stage in run order.
var Order = []Stage{
	{Name: Fix, Label: "Autofix", ConfigFile: ".pre-commit-config-autofix.yaml", Policy: Always},
	{Name: Mandatory, Label: "Mandatory", ConfigFile: ".pre-commit-config.yaml", Policy: Always},
	{Name: Optional, Label: "Optional", ConfigFile: ".pre-commit-config-optional.yaml", Policy: Strict},
	{Name: Experimental, Label: "Experimental", ConfigFile: ".pre-commit-config-experimental.yaml", Policy: Never},
}

// DefaultSelection runs everything "all" covers except the autofix stage.
const DefaultSelection = "all,-fix"

// all expands to these stages; experimental must be named explicitly.
var allNames = []Name{Fix, Mandatory, Optional}

// Lookup returns the stage called name.
func Lookup(name Name) (Stage, bool) {
	for _, s := range Order {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// Set is a selection of stages.
type Set map[Name]bool

// Stages returns the selected stages in run order.
func (s Set) Stages() []Stage {
	var out []Stage
	for _, st := range Order {
		if s[st.Name] {
			out = append(out, st)
		}
	}
	return out
}

// String returns the selected names in run order, comma separated.
func (s Set) String() string {
	names := make([]string, 0, len(s))
	for _, st := range s.Stages() {
		names = append(names, string(st.Name))
	}
	return strings.Join(names, ",")
}

// Choices returns every accepted selection token, sorted.
func Choices() []string {
	choices := []string{"all", "-all"}
	for _, st := range Order {
		choices = append(choices, string(st.Name), "-"+string(st.Name))
	}
	sort.Strings(choices)
	return choices
}

// ParseSelection parses comma separated selection values. "all" adds the
// fix, mandatory and optional stages; a "-" prefix removes a stage and wins
// over any addition regardless of position.
func ParseSelection(values []string) (Set, error) {
	added := make(Set)
	removed := make(Set)
	for _, raw := range pathset.ParseCSVs(values) {
		token := strings.ToLower(raw)
		target := added
		if strings.HasPrefix(token, "-") {
			target = removed
			token = token[1:]
		}
		if token == "all" {
			for _, n := range allNames {
				target[n] = true
			}
			continue
		}
		if _, ok := Lookup(Name(token)); !ok {
			return nil, fmt.Errorf("invalid stage %q: valid choices are %s", raw, strings.Join(Choices(), ", "))
		}
		target[Name(token)] = true
	}
	for n := range removed {
		delete(added, n)
	}
	return added, nil
}
