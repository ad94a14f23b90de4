// Package search narrows a project graph down to the modules relevant to a
// set of keywords.
package search

import (
	"regexp"
	"strings"

	"github.com/Sansyuh06/Chillax.AI-AI-Based-IDE/internal/graph"
)

// Search returns the modules whose path, function names or class names
// contain any keyword, case-insensitively. Modules keep graph order and
// appear at most once. An empty keyword matches every module; no keywords
// match nothing.
func Search(project *graph.Project, keywords []string) []*graph.Module {
	results := []*graph.Module{}
	if project == nil {
		return results
	}

	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kws = append(kws, strings.ToLower(kw))
	}
	if len(kws) == 0 {
		return results
	}

	for _, m := range project.Modules {
		if matches(m, kws) {
			results = append(results, m)
		}
	}
	return results
}

func matches(m *graph.Module, kws []string) bool {
	if containsAny(m.Path, kws) {
		return true
	}
	for _, fn := range m.Functions {
		if containsAny(fn.Name, kws) {
			return true
		}
	}
	for _, c := range m.Classes {
		if containsAny(c.Name, kws) {
			return true
		}
	}
	return false
}

func containsAny(s string, kws []string) bool {
	s = strings.ToLower(s)
	for _, kw := range kws {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var wordPattern = regexp.MustCompile(`[a-zA-Z_]\w*`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`how does do the what is a an in of to and or if
		this that work works about can i it when where why which are was be has
		have will would could should my me for with on at from by not but all
		any each every`) {
		stopWords[w] = struct{}{}
	}
}

// Keywords extracts search keywords from a free-form question: lowercased
// identifiers longer than two characters that are not stop words. When none
// survive, the first three identifiers are returned instead.
func Keywords(question string) []string {
	words := wordPattern.FindAllString(strings.ToLower(question), -1)

	keywords := []string{}
	for _, w := range words {
		if _, stop := stopWords[w]; stop || len(w) <= 2 {
			continue
		}
		keywords = append(keywords, w)
	}
	if len(keywords) == 0 && len(words) > 0 {
		keywords = append(keywords, words[:min(3, len(words))]...)
	}
	return keywords
}
