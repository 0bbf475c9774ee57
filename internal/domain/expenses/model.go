package expenses

import (
	"time"

	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/money"
)

type Expense struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount      money.Money `gorm:"type:bigint;not null" json:"amount"`
	Description string      `gorm:"not null" json:"description"`
	CategoryID  string      `gorm:"type:uuid;index;not null" json:"category_id"`
	Date        time.Time   `gorm:"type:date;not null" json:"date"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// ExpenseBudgetLink records the exact portion debited to one budget so the
// reversal on unlink or delete is precise. Links are never updated in
// place.
type ExpenseBudgetLink struct {
	ExpenseID string      `gorm:"type:uuid;primaryKey" json:"expense_id"`
	BudgetID  string      `gorm:"type:uuid;primaryKey" json:"budget_id"`
	Amount    money.Money `gorm:"type:bigint;not null" json:"amount"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// ExpenseSavingsGoalLink is the withdrawal counterpart for savings goals.
type ExpenseSavingsGoalLink struct {
	ExpenseID     string      `gorm:"type:uuid;primaryKey" json:"expense_id"`
	SavingsGoalID string      `gorm:"type:uuid;primaryKey" json:"savings_goal_id"`
	Amount        money.Money `gorm:"type:bigint;not null" json:"amount"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

type ExpenseWithLinks struct {
	Expense
	BudgetLinks      []ExpenseBudgetLink      `json:"budget_links"`
	SavingsGoalLinks []ExpenseSavingsGoalLink `json:"savings_goal_links"`
}

// AllocationSpec names the buckets one expense should be distributed
// across. Amounts is only consulted for the manual policy and runs
// parallel to BucketIDs.
type AllocationSpec struct {
	Type      split.DistributionType
	BucketIDs []string
	Amounts   []money.Money
}

type CreateExpenseInput struct {
	UserID       string
	Amount       money.Money
	Description  string
	CategoryID   string
	Date         time.Time
	Budgets      AllocationSpec
	SavingsGoals AllocationSpec
}

type UpdateExpenseInput struct {
	ExpenseID    string
	UserID       string
	Amount       *money.Money
	Description  *string
	CategoryID   *string
	Date         *time.Time
	Budgets      *AllocationSpec
	SavingsGoals *AllocationSpec
}

type UnlinkInput struct {
	ExpenseID      string
	UserID         string
	BudgetIDs      []string
	SavingsGoalIDs []string
}

type ListFilter struct {
	From       *time.Time
	To         *time.Time
	CategoryID string
	Limit      int
	Offset     int
}
