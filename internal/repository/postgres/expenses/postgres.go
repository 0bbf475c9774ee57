package expenses

import (
	"context"
	"errors"

	bucketsdomain "fintrack-go/internal/domain/buckets"
	expensesdomain "fintrack-go/internal/domain/expenses"
	bucketsrepo "fintrack-go/internal/repository/postgres/buckets"
	"gorm.io/gorm"
)

// PostgresRepository composes the bucket repository so link writes and
// bucket accumulator updates run against the same transaction handle.
type PostgresRepository struct {
	db      *gorm.DB
	buckets *bucketsrepo.PostgresRepository
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db, buckets: bucketsrepo.NewPostgres(db)}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(expensesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgres(tx))
	})
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *expensesdomain.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *PostgresRepository) GetExpenseByID(ctx context.Context, userID, expenseID string) (*expensesdomain.Expense, error) {
	var expense expensesdomain.Expense
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, expenseID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expensesdomain.ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, userID string, filter expensesdomain.ListFilter) ([]expensesdomain.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&expensesdomain.Expense{}).Where("user_id = ?", userID)
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date desc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []expensesdomain.Expense
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) UpdateExpense(ctx context.Context, expense *expensesdomain.Expense) error {
	return r.db.WithContext(ctx).
		Model(&expensesdomain.Expense{}).
		Where("id = ? AND user_id = ?", expense.ID, expense.UserID).
		Updates(map[string]interface{}{
			"amount":      expense.Amount,
			"description": expense.Description,
			"category_id": expense.CategoryID,
			"date":        expense.Date,
			"updated_at":  expense.UpdatedAt,
		}).Error
}

// DeleteExpense removes the expense and cascades to its link rows. The
// ledger reversal happens in the service before this is called.
func (r *PostgresRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Delete(&expensesdomain.ExpenseBudgetLink{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Delete(&expensesdomain.ExpenseSavingsGoalLink{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&expensesdomain.Expense{}, "id = ?", expenseID).Error
}

func (r *PostgresRepository) CreateBudgetLink(ctx context.Context, link *expensesdomain.ExpenseBudgetLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) ListBudgetLinks(ctx context.Context, expenseID string) ([]expensesdomain.ExpenseBudgetLink, error) {
	var links []expensesdomain.ExpenseBudgetLink
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("created_at asc").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *PostgresRepository) DeleteBudgetLink(ctx context.Context, expenseID, budgetID string) error {
	return r.db.WithContext(ctx).
		Delete(&expensesdomain.ExpenseBudgetLink{}, "expense_id = ? AND budget_id = ?", expenseID, budgetID).Error
}

func (r *PostgresRepository) CreateSavingsGoalLink(ctx context.Context, link *expensesdomain.ExpenseSavingsGoalLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) ListSavingsGoalLinks(ctx context.Context, expenseID string) ([]expensesdomain.ExpenseSavingsGoalLink, error) {
	var links []expensesdomain.ExpenseSavingsGoalLink
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("created_at asc").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *PostgresRepository) DeleteSavingsGoalLink(ctx context.Context, expenseID, goalID string) error {
	return r.db.WithContext(ctx).
		Delete(&expensesdomain.ExpenseSavingsGoalLink{}, "expense_id = ? AND savings_goal_id = ?", expenseID, goalID).Error
}

func (r *PostgresRepository) GetBudgetForUpdate(ctx context.Context, budgetID string) (*bucketsdomain.Budget, error) {
	return r.buckets.GetBudgetForUpdate(ctx, budgetID)
}

func (r *PostgresRepository) SaveBudget(ctx context.Context, budget *bucketsdomain.Budget) error {
	return r.buckets.SaveBudget(ctx, budget)
}

func (r *PostgresRepository) GetSavingsGoalForUpdate(ctx context.Context, goalID string) (*bucketsdomain.SavingsGoal, error) {
	return r.buckets.GetSavingsGoalForUpdate(ctx, goalID)
}

func (r *PostgresRepository) SaveSavingsGoal(ctx context.Context, goal *bucketsdomain.SavingsGoal) error {
	return r.buckets.SaveSavingsGoal(ctx, goal)
}
