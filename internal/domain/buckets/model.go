package buckets

import (
	"time"

	"fintrack-go/internal/money"
)

type Budget struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;index;not null" json:"user_id"`
	Name        string      `gorm:"not null" json:"name"`
	CategoryID  *string     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	TotalAmount money.Money `gorm:"type:bigint;not null" json:"total_amount"`
	SpentAmount money.Money `gorm:"type:bigint;not null;default:0" json:"spent_amount"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// ApplySpending debits an expense allocation against the budget.
func (b *Budget) ApplySpending(amount money.Money) {
	b.SpentAmount += amount
	b.UpdatedAt = time.Now().UTC()
}

// ReverseSpending undoes a previously applied allocation. The running
// total never goes below zero.
func (b *Budget) ReverseSpending(amount money.Money) {
	b.SpentAmount -= amount
	if b.SpentAmount < 0 {
		b.SpentAmount = 0
	}
	b.UpdatedAt = time.Now().UTC()
}

func (b *Budget) SpentPercent() float64 {
	if b.TotalAmount <= 0 {
		return 0
	}
	return float64(b.SpentAmount) / float64(b.TotalAmount) * 100
}

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
)

type SavingsGoal struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string      `gorm:"type:uuid;index;not null" json:"user_id"`
	Name          string      `gorm:"not null" json:"name"`
	TargetAmount  money.Money `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount money.Money `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Status        GoalStatus  `gorm:"not null;default:active" json:"status"`
	TargetDate    *time.Time  `gorm:"type:date" json:"target_date,omitempty"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddFunds credits the goal and flips it to completed once the target is
// reached. Returns true when this call caused the flip.
func (g *SavingsGoal) AddFunds(amount money.Money) bool {
	g.CurrentAmount += amount
	g.UpdatedAt = time.Now().UTC()
	if g.CurrentAmount >= g.TargetAmount && g.Status != GoalStatusCompleted {
		g.Status = GoalStatusCompleted
		return true
	}
	return false
}

// WithdrawFunds debits the goal, clamped at zero. Unlike a bill's status,
// a completed goal regresses to active when the balance drops back below
// the target.
func (g *SavingsGoal) WithdrawFunds(amount money.Money) {
	g.CurrentAmount -= amount
	if g.CurrentAmount < 0 {
		g.CurrentAmount = 0
	}
	if g.Status == GoalStatusCompleted && g.CurrentAmount < g.TargetAmount {
		g.Status = GoalStatusActive
	}
	g.UpdatedAt = time.Now().UTC()
}

func (g *SavingsGoal) ProgressPercent() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return float64(g.CurrentAmount) / float64(g.TargetAmount) * 100
}
