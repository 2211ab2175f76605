package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sephli/timescope/internal/domain/category"
	"github.com/sephli/timescope/internal/repository"
)

// CategoryRepository implements category.Repository for SQLite.
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category and its default tag links.
func (r *CategoryRepository) Create(ctx context.Context, cat *category.Category) error {
	query := `
		INSERT INTO categories (id, name, color, is_default, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		cat.ID, cat.Name, cat.Color, cat.IsDefault, cat.Position, cat.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return r.SetDefaultTagIDs(ctx, cat.ID, cat.DefaultTagIDs)
}

// Get retrieves a category with its rules and default tags.
func (r *CategoryRepository) Get(ctx context.Context, id string) (*category.Category, error) {
	query := `
		SELECT id, name, color, is_default, position, created_at
		FROM categories WHERE id = ?
	`
	cat, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	rules, err := r.rulesFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	cat.Rules = rules[id]

	tags, err := r.DefaultTagIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.DefaultTagIDs = tags
	return cat, nil
}

// Update rewrites a category's mutable fields.
func (r *CategoryRepository) Update(ctx context.Context, cat *category.Category) error {
	query := `UPDATE categories SET name = ?, color = ?, position = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, cat.Name, cat.Color, cat.Position, cat.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category; rules and tag links cascade, activities keep
// their history with category_id cleared.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

// List returns all categories in matching order with rules and default
// tags loaded.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	query := `
		SELECT id, name, color, is_default, position, created_at
		FROM categories
		ORDER BY position, created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []category.Category
	var ids []string
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
		ids = append(ids, cat.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return categories, nil
	}

	rulesByCategory, err := r.rulesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	tagsByCategory, err := r.defaultTagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Rules = rulesByCategory[categories[i].ID]
		categories[i].DefaultTagIDs = tagsByCategory[categories[i].ID]
	}
	return categories, nil
}

// NextPosition returns the next matching-order slot before the seeded
// default bucket.
func (r *CategoryRepository) NextPosition(ctx context.Context) (int, error) {
	var position int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM categories WHERE is_default = 0`).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("failed to compute category position: %w", err)
	}
	return position, nil
}

// AddRule inserts a rule and its tag links.
func (r *CategoryRepository) AddRule(ctx context.Context, rule *category.Rule) error {
	query := `
		INSERT INTO rules (id, category_id, rule_type, pattern, is_regex, is_valid, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rule.ID, rule.CategoryID, string(rule.Type), rule.Pattern,
		rule.IsRegex, rule.IsValid, rule.Position)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add rule: %w", err)
	}
	return r.setRuleTags(ctx, rule.ID, rule.TagIDs)
}

// UpdateRule rewrites a rule and replaces its tag links.
func (r *CategoryRepository) UpdateRule(ctx context.Context, rule *category.Rule) error {
	query := `
		UPDATE rules SET rule_type = ?, pattern = ?, is_regex = ?, is_valid = ?, position = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		string(rule.Type), rule.Pattern, rule.IsRegex, rule.IsValid, rule.Position, rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return category.ErrRuleNotFound
	}
	return r.setRuleTags(ctx, rule.ID, rule.TagIDs)
}

// DeleteRule removes a rule; tag links cascade.
func (r *CategoryRepository) DeleteRule(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return category.ErrRuleNotFound
	}
	return nil
}

// setRuleTags replaces a rule's tag links.
func (r *CategoryRepository) setRuleTags(ctx context.Context, ruleID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM rule_tags WHERE rule_id = ?`, ruleID); err != nil {
		return fmt.Errorf("failed to clear rule tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO rule_tags (rule_id, tag_id) VALUES (?, ?)`,
			ruleID, tagID); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to tag rule: %w", err)
		}
	}
	return nil
}

// SetDefaultTagIDs replaces a category's default tag set.
func (r *CategoryRepository) SetDefaultTagIDs(ctx context.Context, categoryID string, tagIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM category_tags WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("failed to clear category tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO category_tags (category_id, tag_id) VALUES (?, ?)`,
			categoryID, tagID); err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to tag category: %w", err)
		}
	}
	return nil
}

// DefaultTagIDs returns a category's default tag set.
func (r *CategoryRepository) DefaultTagIDs(ctx context.Context, categoryID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM category_tags WHERE category_id = ? ORDER BY tag_id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tags = append(tags, tagID)
	}
	return tags, rows.Err()
}

func (r *CategoryRepository) rulesFor(ctx context.Context, categoryIDs []string) (map[string][]category.Rule, error) {
	ids := make([]interface{}, len(categoryIDs))
	for i, id := range categoryIDs {
		ids[i] = id
	}
	query := `
		SELECT id, category_id, rule_type, pattern, is_regex, is_valid, position
		FROM rules
		WHERE category_id IN (` + placeholders(len(ids)) + `)
		ORDER BY category_id, position, id
	`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	byCategory := map[string][]category.Rule{}
	var ruleIDs []interface{}
	for rows.Next() {
		var rule category.Rule
		var ruleType string
		if err := rows.Scan(&rule.ID, &rule.CategoryID, &ruleType, &rule.Pattern,
			&rule.IsRegex, &rule.IsValid, &rule.Position); err != nil {
			return nil, err
		}
		rule.Type = category.RuleType(ruleType)
		byCategory[rule.CategoryID] = append(byCategory[rule.CategoryID], rule)
		ruleIDs = append(ruleIDs, rule.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ruleIDs) == 0 {
		return byCategory, nil
	}

	// Index built after all appends so slice growth can't move entries.
	ruleIndex := map[string]*category.Rule{}
	for catID := range byCategory {
		rules := byCategory[catID]
		for i := range rules {
			ruleIndex[rules[i].ID] = &rules[i]
		}
	}

	tagQuery := `
		SELECT rule_id, tag_id FROM rule_tags
		WHERE rule_id IN (` + placeholders(len(ruleIDs)) + `)
		ORDER BY rule_id, tag_id
	`
	tagRows, err := r.db.QueryContext(ctx, tagQuery, ruleIDs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var ruleID, tagID string
		if err := tagRows.Scan(&ruleID, &tagID); err != nil {
			return nil, err
		}
		if rule, ok := ruleIndex[ruleID]; ok {
			rule.TagIDs = append(rule.TagIDs, tagID)
		}
	}
	return byCategory, tagRows.Err()
}

func (r *CategoryRepository) defaultTagsFor(ctx context.Context, categoryIDs []string) (map[string][]string, error) {
	ids := make([]interface{}, len(categoryIDs))
	for i, id := range categoryIDs {
		ids[i] = id
	}
	query := `
		SELECT category_id, tag_id FROM category_tags
		WHERE category_id IN (` + placeholders(len(ids)) + `)
		ORDER BY category_id, tag_id
	`
	rows, err := r.db.QueryContext(ctx, query, ids...)
	if err != nil {
		return nil, fmt.Errorf("failed to load category tags: %w", err)
	}
	defer rows.Close()

	byCategory := map[string][]string{}
	for rows.Next() {
		var categoryID, tagID string
		if err := rows.Scan(&categoryID, &tagID); err != nil {
			return nil, err
		}
		byCategory[categoryID] = append(byCategory[categoryID], tagID)
	}
	return byCategory, rows.Err()
}

func scanCategory(row rowScanner) (*category.Category, error) {
	var cat category.Category
	var createdMS int64
	err := row.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.IsDefault, &cat.Position, &createdMS)
	if err != nil {
		return nil, err
	}
	cat.CreatedAt = msToTime(createdMS)
	return &cat, nil
}
