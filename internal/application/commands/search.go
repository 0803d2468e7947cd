package commands

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"treedit/internal/domain"
)

// MinQueryLength is the shortest query that is searched
const MinQueryLength = 2

// keyBonus ranks key matches above equally good value matches
const keyBonus = 25

// SearchResult is one node whose key, key path or value matched the query
type SearchResult struct {
	Path    domain.Path
	Key     string
	KeyPath string // keys from the root joined by dots, array indexes as numbers
	Kind    domain.Kind
	Preview string
	Score   int
}

// SearchCommand finds nodes by key, dotted key path or scalar value
type SearchCommand struct {
	root  *domain.Node
	Query string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(root *domain.Node, query string) *SearchCommand {
	return &SearchCommand{
		root:  root,
		Query: strings.TrimSpace(query),
	}
}

// Execute returns matches best first, in document order among equal scores.
// Queries shorter than MinQueryLength match nothing.
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len([]rune(c.Query)) < MinQueryLength {
		return nil, nil
	}

	var results []SearchResult
	var keys []string
	domain.Walk(c.root, func(p domain.Path, n *domain.Node) bool {
		if len(p) == 0 {
			return true
		}
		if err := ctx.Err(); err != nil {
			return false
		}

		parent, index, _ := p.Parent()
		key, hasKey := domain.Get(c.root, parent).Key(index)
		keys = append(keys[:len(p)-1], segment(key, hasKey, index))
		keyPath := strings.Join(keys, ".")

		score := FuzzyScore(searchText(n), c.Query)
		if hasKey {
			if s := FuzzyScore(key, c.Query); s > 0 {
				score = max(score, s+keyBonus)
			}
		}
		if strings.Contains(c.Query, ".") {
			if s := FuzzyScore(keyPath, c.Query); s > 0 {
				score = max(score, s+keyBonus)
			}
		}
		if score > 0 {
			results = append(results, SearchResult{
				Path:    p,
				Key:     key,
				KeyPath: keyPath,
				Kind:    n.Kind,
				Preview: domain.Preview(n, domain.DefaultPreviewWidth),
				Score:   score,
			})
		}
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func segment(key string, hasKey bool, index int) string {
	if hasKey && key != "" {
		return key
	}
	return strconv.Itoa(index)
}

func searchText(n *domain.Node) string {
	switch n.Kind {
	case domain.KindString, domain.KindComment, domain.KindAlias:
		return n.Text
	case domain.KindNumber:
		return n.NumberText()
	case domain.KindBool:
		return strconv.FormatBool(n.Bool)
	}
	return ""
}

// FuzzyScore rates how well target matches query, case-insensitively.
// Whole matches score 200, prefixes 150 and substrings 100. Otherwise the
// query characters must appear in order; runs and word starts earn more.
// Zero means no match.
func FuzzyScore(target, query string) int {
	t := []rune(strings.ToLower(target))
	q := []rune(strings.ToLower(query))
	if len(q) == 0 || len(t) == 0 {
		return 0
	}

	lt, lq := string(t), string(q)
	switch {
	case lt == lq:
		return 200
	case strings.HasPrefix(lt, lq):
		return 150
	case strings.Contains(lt, lq):
		return 100
	}

	score, qi, prev := 0, 0, -2
	for i := 0; i < len(t) && qi < len(q); i++ {
		if t[i] != q[qi] {
			continue
		}
		score++
		if prev == i-1 {
			score += 10
		}
		if i == 0 || isWordBreak(t[i-1]) {
			score += 15
		}
		prev = i
		qi++
	}
	if qi < len(q) {
		return 0
	}
	return min(score, 99)
}

func isWordBreak(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r)
}
