package curator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nexus-evo/algorec/pkg/corpus"
)

// promptTemplates phrase a category as a concrete engineering ask.
// Generation round-robins categories through these, so every category
// in the corpus contributes examples before any repeats.
var promptTemplates = []string{
	"I need to %s in a production service, what should I use?",
	"Recommend an approach for %s with a well-reviewed implementation.",
	"Which algorithm fits a system that must handle %s?",
	"What is a solid choice when the requirement is %s?",
}

// syntheticPrompts derives up to n task prompts from the categories
// present in the store. Categories are collected from a full scan and
// sorted, so the prompt sequence is stable for a fixed corpus.
func syntheticPrompts(ctx context.Context, store corpus.Store, n int) ([]string, error) {
	seen := make(map[string]struct{})
	for record, err := range store.ScanAll(ctx) {
		if err != nil {
			return nil, err
		}
		for _, c := range record.Categories {
			if c = strings.TrimSpace(strings.ToLower(c)); c != "" {
				seen[c] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil, nil
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	prompts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		category := categories[i%len(categories)]
		template := promptTemplates[(i/len(categories))%len(promptTemplates)]
		prompts = append(prompts, fmt.Sprintf(template, categoryPhrase(category)))
	}
	return prompts, nil
}

// categoryPhrase turns a category tag into readable prose, e.g.
// "symmetric-encryption" becomes "symmetric encryption".
func categoryPhrase(category string) string {
	return strings.ReplaceAll(strings.ReplaceAll(category, "-", " "), "_", " ")
}
