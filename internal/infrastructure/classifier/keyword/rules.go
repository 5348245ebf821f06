package keyword

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

var defaultRules = []domain.CategoryRule{
	{Category: "resume", Keywords: []string{"education", "skills", "work experience", "objective", "personal data"}},
	{Category: "birth_cert", Keywords: []string{"certificate of live birth", "date of birth", "place of birth"}},
	{Category: "tin", Keywords: []string{"tin", "bureau of internal revenue", "tax identification number"}},
	{Category: "sss", Keywords: []string{"sss number", "social security system"}},
	{Category: "philhealth", Keywords: []string{"philhealth", "insurance corporation"}},
	{Category: "pagibig", Keywords: []string{"pag-ibig", "hdmf"}},
	{Category: "contract", Keywords: []string{"agreement", "terms and conditions", "shall"}},
	{Category: "medical_clearance", Keywords: []string{"medical clearance", "fit to work"}},
	{Category: "memo", Keywords: []string{"memorandum", "subject:"}},
	{Category: "incident_report", Keywords: []string{"incident", "incident occurred"}},
	{Category: "disciplinary_action", Keywords: []string{"disciplinary action", "violation"}},
	{Category: "commendation", Keywords: []string{"commendation", "outstanding performance"}},
	{Category: "exit_letter", Keywords: []string{"resignation", "last working day"}},
	{Category: "interview", Keywords: []string{"exit interview"}},
	{Category: "clearance", Keywords: []string{"clearance form", "no pending accountability"}},
}

// DefaultRules returns the built-in HR rule set.
func DefaultRules() *domain.RuleSet {
	rs, err := domain.NewRuleSet(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("built-in rule set is invalid: %v", err))
	}
	return rs
}

type rulesFile struct {
	Categories []domain.CategoryRule `yaml:"categories"`
}

// LoadRules reads an ordered rule set from YAML:
//
//	categories:
//	  - category: resume
//	    keywords: [education, skills]
//
// An empty path yields the built-in rules.
func LoadRules(path string) (*domain.RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(raw)
}

func ParseRules(raw []byte) (*domain.RuleSet, error) {
	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse rules yaml", err)
	}
	return domain.NewRuleSet(file.Categories)
}
