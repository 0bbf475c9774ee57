package buckets

import (
	"context"
	"errors"

	bucketsdomain "fintrack-go/internal/domain/buckets"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(bucketsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateBudget(ctx context.Context, budget *bucketsdomain.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

func (r *PostgresRepository) GetBudget(ctx context.Context, userID, budgetID string) (*bucketsdomain.Budget, error) {
	var budget bucketsdomain.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, budgetID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bucketsdomain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, userID string) ([]bucketsdomain.Budget, error) {
	var budgets []bucketsdomain.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// GetBudgetForUpdate takes a row lock so concurrent spent_amount updates
// serialize. Callers must hold a transaction.
func (r *PostgresRepository) GetBudgetForUpdate(ctx context.Context, budgetID string) (*bucketsdomain.Budget, error) {
	var budget bucketsdomain.Budget
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", budgetID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bucketsdomain.ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *PostgresRepository) SaveBudget(ctx context.Context, budget *bucketsdomain.Budget) error {
	return r.db.WithContext(ctx).
		Model(&bucketsdomain.Budget{}).
		Where("id = ?", budget.ID).
		Updates(map[string]interface{}{
			"name":         budget.Name,
			"category_id":  budget.CategoryID,
			"total_amount": budget.TotalAmount,
			"spent_amount": budget.SpentAmount,
			"updated_at":   budget.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) CreateSavingsGoal(ctx context.Context, goal *bucketsdomain.SavingsGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *PostgresRepository) GetSavingsGoal(ctx context.Context, userID, goalID string) (*bucketsdomain.SavingsGoal, error) {
	var goal bucketsdomain.SavingsGoal
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, goalID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bucketsdomain.ErrSavingsGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) ListSavingsGoals(ctx context.Context, userID string) ([]bucketsdomain.SavingsGoal, error) {
	var goals []bucketsdomain.SavingsGoal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// GetSavingsGoalForUpdate takes a row lock so concurrent current_amount
// updates serialize. Callers must hold a transaction.
func (r *PostgresRepository) GetSavingsGoalForUpdate(ctx context.Context, goalID string) (*bucketsdomain.SavingsGoal, error) {
	var goal bucketsdomain.SavingsGoal
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", goalID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bucketsdomain.ErrSavingsGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) SaveSavingsGoal(ctx context.Context, goal *bucketsdomain.SavingsGoal) error {
	return r.db.WithContext(ctx).
		Model(&bucketsdomain.SavingsGoal{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"name":           goal.Name,
			"target_amount":  goal.TargetAmount,
			"current_amount": goal.CurrentAmount,
			"status":         goal.Status,
			"target_date":    goal.TargetDate,
			"updated_at":     goal.UpdatedAt,
		}).Error
}
