// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"go.yaml.in/yaml/v3"
)

// ruleSpec is the YAML form of one rule. Patterns are RE2 syntax.
type ruleSpec struct {
	Score   int    `yaml:"score"`
	Pattern string `yaml:"pattern"`
	Unless  string `yaml:"unless,omitempty"`
	Tag     string `yaml:"tag"`
}

// LoadRules reads a rule table from a YAML file: a list of
// {score, pattern, unless?, tag} entries. The result is sorted by
// descending score (stable, so same-score entries keep file order), making
// first-match-wins evaluation independent of file ordering.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}

	var specs []ruleSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		if spec.Pattern == "" || spec.Tag == "" {
			return nil, fmt.Errorf("rule %d in %s: pattern and tag are required", i, path)
		}
		rx, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q in %s: %w", spec.Tag, path, err)
		}
		r := Rule{Score: spec.Score, Pattern: rx, Tag: spec.Tag}
		if spec.Unless != "" {
			if r.Unless, err = regexp.Compile(spec.Unless); err != nil {
				return nil, fmt.Errorf("rule %q in %s: unless: %w", spec.Tag, path, err)
			}
		}
		rules = append(rules, r)
	}

	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Score > rules[j].Score })
	return rules, nil
}
