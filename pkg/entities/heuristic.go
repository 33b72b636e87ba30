package entities

import (
	"context"
	"regexp"
	"strings"

	"github.com/harun/recall/pkg/memory"
)

// namePattern matches capitalized words, optionally two in a row, as
// candidate person names.
var namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)?\b`)

// activityKeywords are common activities worth annotating.
var activityKeywords = []string{"lunch", "dinner", "breakfast", "visit", "walk", "talk", "meeting"}

// HeuristicExtractor implements memory.EntityExtractor with regular
// expressions and a keyword list. It never fails and needs no network.
type HeuristicExtractor struct{}

var _ memory.EntityExtractor = (*HeuristicExtractor)(nil)

// NewHeuristicExtractor creates a heuristic extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract finds capitalized names and known activity keywords.
func (e *HeuristicExtractor) Extract(_ context.Context, text string) (memory.Entities, error) {
	seen := make(map[string]bool)
	people := []string{}
	for _, name := range namePattern.FindAllString(text, -1) {
		if !seen[name] {
			seen[name] = true
			people = append(people, name)
		}
	}

	lower := strings.ToLower(text)
	activities := []string{}
	for _, activity := range activityKeywords {
		if strings.Contains(lower, activity) {
			activities = append(activities, activity)
		}
	}

	return memory.Entities{People: people, Activities: activities}, nil
}
