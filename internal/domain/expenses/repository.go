package expenses

import (
	"context"

	"fintrack-go/internal/domain/buckets"
)

// BucketLedger is the slice of storage the allocation engine uses to debit
// and credit bucket accumulators. The ForUpdate reads take row locks so
// that concurrent allocations against the same bucket serialize; both the
// link write and the bucket mutation happen inside one transaction.
type BucketLedger interface {
	GetBudgetForUpdate(ctx context.Context, budgetID string) (*buckets.Budget, error)
	SaveBudget(ctx context.Context, budget *buckets.Budget) error
	GetSavingsGoalForUpdate(ctx context.Context, goalID string) (*buckets.SavingsGoal, error)
	SaveSavingsGoal(ctx context.Context, goal *buckets.SavingsGoal) error
}

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	BucketLedger

	CreateExpense(ctx context.Context, expense *Expense) error
	GetExpenseByID(ctx context.Context, userID, expenseID string) (*Expense, error)
	ListExpenses(ctx context.Context, userID string, filter ListFilter) ([]Expense, int64, error)
	UpdateExpense(ctx context.Context, expense *Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	CreateBudgetLink(ctx context.Context, link *ExpenseBudgetLink) error
	ListBudgetLinks(ctx context.Context, expenseID string) ([]ExpenseBudgetLink, error)
	DeleteBudgetLink(ctx context.Context, expenseID, budgetID string) error

	CreateSavingsGoalLink(ctx context.Context, link *ExpenseSavingsGoalLink) error
	ListSavingsGoalLinks(ctx context.Context, expenseID string) ([]ExpenseSavingsGoalLink, error)
	DeleteSavingsGoalLink(ctx context.Context, expenseID, goalID string) error
}
