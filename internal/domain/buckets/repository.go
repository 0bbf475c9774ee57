package buckets

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateBudget(ctx context.Context, budget *Budget) error
	GetBudget(ctx context.Context, userID, budgetID string) (*Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]Budget, error)
	// GetBudgetForUpdate locks the budget row for the duration of the
	// surrounding transaction so concurrent apply/reverse calls serialize.
	GetBudgetForUpdate(ctx context.Context, budgetID string) (*Budget, error)
	SaveBudget(ctx context.Context, budget *Budget) error

	CreateSavingsGoal(ctx context.Context, goal *SavingsGoal) error
	GetSavingsGoal(ctx context.Context, userID, goalID string) (*SavingsGoal, error)
	ListSavingsGoals(ctx context.Context, userID string) ([]SavingsGoal, error)
	GetSavingsGoalForUpdate(ctx context.Context, goalID string) (*SavingsGoal, error)
	SaveSavingsGoal(ctx context.Context, goal *SavingsGoal) error
}
