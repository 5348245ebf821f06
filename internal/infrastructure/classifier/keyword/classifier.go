package keyword

import (
	"context"
	"math"
	"strings"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

const (
	baseConfidence   = 0.60
	confidencePerHit = 0.05
	maxConfidence    = 0.95
)

type Classifier struct {
	rules *domain.RuleSet
}

func NewClassifier(rules *domain.RuleSet) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify picks the category with the highest keyword hit count. Ties keep
// the category that comes first in the rule set.
func (c *Classifier) Classify(_ context.Context, text string) (domain.Classification, error) {
	bestCategory := ""
	bestScore := 0
	c.rules.Each(func(category string, keywords []string) {
		score := Score(text, keywords)
		if bestCategory == "" || score > bestScore {
			bestCategory = category
			bestScore = score
		}
	})

	if bestScore == 0 {
		return domain.Classification{
			DocumentType: domain.DocumentTypeOthers,
			Confidence:   domain.NoMatchConfidence,
		}, nil
	}
	return domain.Classification{
		DocumentType: bestCategory,
		Confidence:   Confidence(bestScore),
	}, nil
}

// Score sums non-overlapping substring occurrences of every keyword.
func Score(text string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += strings.Count(text, kw)
	}
	return total
}

// Confidence maps a positive hit count to min(0.95, 0.60 + 0.05*hits),
// rounded to two decimals.
func Confidence(hits int) float64 {
	conf := math.Min(maxConfidence, baseConfidence+confidencePerHit*float64(hits))
	return math.Round(conf*100) / 100
}
