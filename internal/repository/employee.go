package repository

import (
	"context" // Request scoped context
	"fmt"     // Error wrapping
	"strings" // Query folding and escaping

	"employee_system/internal/domain" // Domain models and errors

	"gorm.io/gorm"        // ORM library
	"gorm.io/gorm/clause" // Order by column
)

// SortDirection of a search
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// ParseSortDirection maps "asc"/"ascending" (and empty) to SortAsc; any other value sorts descending
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "1":
		return SortAsc
	}
	return SortDesc
}

// sortColumns maps client sort fields to storage columns
var sortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
	"id":        "id",
	"_id":       "id",
}

// SortColumn returns the storage column for a client sort field
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// likeEscaper escapes LIKE wildcards using '!' which needs no quoting in any dialect
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// EmployeeRepository persists employees
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Search returns employees whose name or email contains query (case-insensitive),
// ordered by sortField. Unknown sort fields fall back to primary key order.
func (r *EmployeeRepository) Search(ctx context.Context, query, sortField string, dir SortDirection) ([]domain.Employee, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Employee{}) // Base query
	if query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		tx = tx.Where("name_lower LIKE ? ESCAPE '!' OR email_lower LIKE ? ESCAPE '!'", pattern, pattern) // Folded columns
	}
	col, ok := SortColumn(sortField)
	if ok {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: dir == SortDesc})
	}
	if !ok || col != "id" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}) // Tie-breaker
	}
	employees := []domain.Employee{} // Empty list, never null
	if err := tx.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	return employees, nil
}

// FindByID gets an employee by id
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &e, nil
}

// ExistsByEmail checks whether another employee already uses email
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64 // Matching rows
	tx := r.db.WithContext(ctx).Model(&domain.Employee{}).Where("email = ?", email)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return count > 0, nil
}

// Insert creates an employee
func (r *EmployeeRepository) Insert(ctx context.Context, e *domain.Employee) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// replaceColumns are overwritten by ReplaceByID
var replaceColumns = []string{"name", "email", "mobile", "designation", "gender", "course", "image", "name_lower", "email_lower", "updated_at"}

// ReplaceByID overwrites every mutable field of the employee with e.ID
func (r *EmployeeRepository) ReplaceByID(ctx context.Context, e *domain.Employee) error {
	e.FoldSearchKeys() // Update hooks run on the model, not on e
	res := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("id = ?", e.ID).
		Select(replaceColumns).
		Updates(e)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("replace employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows for unchanged values
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Employee{}).Where("id = ?", e.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("replace employee: %w", err)
		}
		if count == 0 {
			return domain.ErrEmployeeNotFound
		}
	}
	return nil
}

// DeleteByID removes an employee and returns the deleted record
func (r *EmployeeRepository) DeleteByID(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := r.FindByID(ctx, id) // Returned to the caller
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Employee{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrEmployeeNotFound // Deleted concurrently
	}
	return e, nil
}
