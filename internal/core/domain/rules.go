package domain

import (
	"fmt"
	"strings"
)

type CategoryRule struct {
	Category string   `yaml:"category" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// RuleSet is an ordered, read-only table of category keyword rules. The order
// of categories is the tie-break order of the classifier.
type RuleSet struct {
	rules []CategoryRule
}

// NewRuleSet validates and copies the rules. Keywords are lowercased so that
// matching against lowercased text stays case-insensitive.
func NewRuleSet(rules []CategoryRule) (*RuleSet, error) {
	if len(rules) == 0 {
		return nil, WrapError(ErrInvalidInput, "build rule set", fmt.Errorf("no categories"))
	}

	seen := make(map[string]struct{}, len(rules))
	out := make([]CategoryRule, 0, len(rules))
	for idx, rule := range rules {
		category := strings.TrimSpace(rule.Category)
		if category == "" {
			return nil, WrapError(ErrInvalidInput, "build rule set", fmt.Errorf("category #%d has empty name", idx))
		}
		if category == DocumentTypeOthers {
			return nil, WrapError(ErrInvalidInput, "build rule set", fmt.Errorf("category name %q is reserved", category))
		}
		if _, ok := seen[category]; ok {
			return nil, WrapError(ErrInvalidInput, "build rule set", fmt.Errorf("duplicate category %q", category))
		}
		seen[category] = struct{}{}

		if len(rule.Keywords) == 0 {
			return nil, WrapError(ErrInvalidInput, "build rule set", fmt.Errorf("category %q has no keywords", category))
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(kw)
			if strings.TrimSpace(kw) == "" {
				return nil, WrapError(ErrInvalidInput, "build rule set", fmt.Errorf("category %q has an empty keyword", category))
			}
			keywords = append(keywords, kw)
		}
		out = append(out, CategoryRule{Category: category, Keywords: keywords})
	}
	return &RuleSet{rules: out}, nil
}

func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Each visits categories in order. Callers must not modify the keyword slice.
func (rs *RuleSet) Each(fn func(category string, keywords []string)) {
	for _, rule := range rs.rules {
		fn(rule.Category, rule.Keywords)
	}
}

func (rs *RuleSet) Categories() []string {
	out := make([]string, 0, len(rs.rules))
	for _, rule := range rs.rules {
		out = append(out, rule.Category)
	}
	return out
}
