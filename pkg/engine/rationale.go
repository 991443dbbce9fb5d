package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nexus-evo/algorec/pkg/corpus"
)

// Summarizer produces the human-readable rationale attached to each
// recommendation. Implementations must be deterministic for a given
// record and query.
type Summarizer interface {
	Summarize(record corpus.AlgorithmRecord, query corpus.TaskQuery) string
}

// KeywordSummarizer builds rationales from the structured signals the
// engine already has: hint matches and keyword overlap between the task
// text and the record description. No model call, always available.
type KeywordSummarizer struct{}

// NewKeywordSummarizer returns the default rationale generator.
func NewKeywordSummarizer() *KeywordSummarizer {
	return &KeywordSummarizer{}
}

// Summarize renders a "Use <name> because <reasons>" sentence.
func (s *KeywordSummarizer) Summarize(record corpus.AlgorithmRecord, query corpus.TaskQuery) string {
	var reasons []string

	if query.Category != "" && record.HasCategory(query.Category) {
		reasons = append(reasons, fmt.Sprintf("it covers the %s category you asked for", strings.ToLower(query.Category)))
	}
	if query.Language != "" && strings.EqualFold(query.Language, record.Language) {
		reasons = append(reasons, fmt.Sprintf("it is implemented in %s", record.Language))
	}
	if shared := sharedKeywords(query.Text, record.Description, 3); len(shared) > 0 {
		reasons = append(reasons, fmt.Sprintf("its description mentions %s", strings.Join(shared, ", ")))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "it is the closest semantic match in the corpus")
	}

	return fmt.Sprintf("Use %s because %s.", record.Name, strings.Join(reasons, " and "))
}

// sharedKeywords returns up to limit words appearing in both texts,
// alphabetically sorted for stable output. Stopwords and short tokens
// are dropped.
func sharedKeywords(task, description string, limit int) []string {
	taskWords := keywordSet(task)
	if len(taskWords) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var shared []string
	for _, w := range tokenize(description) {
		if _, ok := taskWords[w]; !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		shared = append(shared, w)
	}

	sort.Strings(shared)
	if len(shared) > limit {
		shared = shared[:limit]
	}
	return shared
}

func keywordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range tokenize(text) {
		set[w] = struct{}{}
	}
	return set
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
	var out []string
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "over": {}, "using": {}, "use": {}, "can": {},
	"its": {}, "are": {}, "was": {}, "has": {}, "have": {}, "you": {},
	"your": {}, "all": {}, "any": {}, "not": {}, "but": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "should": {},
	"need": {}, "want": {}, "how": {}, "what": {}, "implementation": {},
	"algorithm": {}, "provides": {}, "based": {},
}
