package category

import (
	"context"
	"fmt"
	"sync"
)

// Result is the outcome of classifying a window sample.
type Result struct {
	CategoryID string
	TagIDs     []string
}

// Classifier maps (appName, windowTitle, url) to the first category with a
// matching rule, in stable category order. It holds a compiled snapshot of
// the catalog; Reload refreshes the snapshot after rules change.
type Classifier struct {
	repo Repository

	mu         sync.RWMutex
	categories []compiledCategory
	otherID    string
	otherTags  []string
}

type compiledCategory struct {
	category Category
	matchers []matcher
}

// NewClassifier creates a classifier and loads the current catalog.
func NewClassifier(ctx context.Context, repo Repository) (*Classifier, error) {
	c := &Classifier{repo: repo}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload recompiles the classifier from the repository. Categories arrive
// in stable (position, creation) order; the seeded default category named
// "Other" becomes the fallback.
func (c *Classifier) Reload(ctx context.Context) error {
	categories, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	compiled := make([]compiledCategory, 0, len(categories))
	otherID := ""
	var otherTags []string
	for _, cat := range categories {
		matchers := make([]matcher, 0, len(cat.Rules))
		for _, rule := range cat.Rules {
			matchers = append(matchers, compileRule(rule))
		}
		compiled = append(compiled, compiledCategory{category: cat, matchers: matchers})
		if cat.IsDefault && cat.Name == OtherCategoryName {
			otherID = cat.ID
			otherTags = cat.DefaultTagIDs
		}
	}

	c.mu.Lock()
	c.categories = compiled
	c.otherID = otherID
	c.otherTags = otherTags
	c.mu.Unlock()
	return nil
}

// Classify returns the first category with at least one matching rule.
// Within the winning category, tags from every matching rule are collected
// and merged with the category's default tags. Unmatched samples fall back
// to the "Other" category with its default tags only. Classify is pure for
// a fixed catalog snapshot and never fails.
func (c *Classifier) Classify(appName, windowTitle string, url *string) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cc := range c.categories {
		var ruleTags []string
		matched := false
		for i := range cc.matchers {
			if cc.matchers[i].matches(appName, windowTitle, url) {
				matched = true
				ruleTags = append(ruleTags, cc.matchers[i].rule.TagIDs...)
			}
		}
		if matched {
			return Result{
				CategoryID: cc.category.ID,
				TagIDs:     mergeTagIDs(cc.category.DefaultTagIDs, ruleTags),
			}
		}
	}

	return Result{
		CategoryID: c.otherID,
		TagIDs:     mergeTagIDs(c.otherTags, nil),
	}
}

func mergeTagIDs(defaults, ruleTags []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(ruleTags))
	var out []string
	for _, ids := range [][]string{defaults, ruleTags} {
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
