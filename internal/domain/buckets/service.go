package buckets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack-go/internal/money"
	"fintrack-go/internal/notify"
)

// Milestone percentages re-evaluated on every deposit. Only the highest
// reached milestone fires, and reaching the target fires the achieved
// trigger instead.
var goalMilestones = []float64{75, 50, 25}

type Service struct {
	repo     Repository
	notifier notify.Notifier
}

func NewService(repo Repository, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{repo: repo, notifier: notifier}
}

type CreateBudgetInput struct {
	UserID      string
	Name        string
	CategoryID  *string
	TotalAmount money.Money
}

func (s *Service) CreateBudget(ctx context.Context, in CreateBudgetInput) (*Budget, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidName
	}
	if in.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	budget := Budget{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Name:        strings.TrimSpace(in.Name),
		CategoryID:  in.CategoryID,
		TotalAmount: in.TotalAmount,
	}
	if err := s.repo.CreateBudget(ctx, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (s *Service) GetBudget(ctx context.Context, userID, budgetID string) (*Budget, error) {
	return s.repo.GetBudget(ctx, userID, budgetID)
}

func (s *Service) ListBudgets(ctx context.Context, userID string) ([]Budget, error) {
	return s.repo.ListBudgets(ctx, userID)
}

type CreateSavingsGoalInput struct {
	UserID       string
	Name         string
	TargetAmount money.Money
	TargetDate   *time.Time
}

func (s *Service) CreateSavingsGoal(ctx context.Context, in CreateSavingsGoalInput) (*SavingsGoal, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrInvalidName
	}
	if in.TargetAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	goal := SavingsGoal{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Name:         strings.TrimSpace(in.Name),
		TargetAmount: in.TargetAmount,
		Status:       GoalStatusActive,
		TargetDate:   in.TargetDate,
	}
	if err := s.repo.CreateSavingsGoal(ctx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *Service) GetSavingsGoal(ctx context.Context, userID, goalID string) (*SavingsGoal, error) {
	return s.repo.GetSavingsGoal(ctx, userID, goalID)
}

func (s *Service) ListSavingsGoals(ctx context.Context, userID string) ([]SavingsGoal, error) {
	return s.repo.ListSavingsGoals(ctx, userID)
}

// AddToSavingsGoal credits a goal owned by the caller. The status flip to
// completed happens inside the transaction; triggers fire after commit.
func (s *Service) AddToSavingsGoal(ctx context.Context, userID, goalID string, amount money.Money) (*SavingsGoal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var updated SavingsGoal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := tx.GetSavingsGoalForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != userID {
			return ErrSavingsGoalNotFound
		}

		goal.AddFunds(amount)
		if err := tx.SaveSavingsGoal(ctx, goal); err != nil {
			return err
		}
		updated = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyGoalProgress(ctx, &updated)
	return &updated, nil
}

// WithdrawFromSavingsGoal debits a goal owned by the caller, clamped at
// zero. A completed goal regresses to active when it drops below target.
func (s *Service) WithdrawFromSavingsGoal(ctx context.Context, userID, goalID string, amount money.Money) (*SavingsGoal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var updated SavingsGoal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := tx.GetSavingsGoalForUpdate(ctx, goalID)
		if err != nil {
			return err
		}
		if goal.UserID != userID {
			return ErrSavingsGoalNotFound
		}

		goal.WithdrawFunds(amount)
		if err := tx.SaveSavingsGoal(ctx, goal); err != nil {
			return err
		}
		updated = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) notifyGoalProgress(ctx context.Context, goal *SavingsGoal) {
	progress := goal.ProgressPercent()
	if progress >= 100 {
		s.notifier.Notify(ctx, goal.UserID, notify.KindSavingsGoalAchieved, map[string]any{
			"goal_id":        goal.ID,
			"goal_name":      goal.Name,
			"current_amount": goal.CurrentAmount.String(),
			"target_amount":  goal.TargetAmount.String(),
		})
		return
	}
	for _, milestone := range goalMilestones {
		if progress >= milestone {
			s.notifier.Notify(ctx, goal.UserID, notify.KindSavingsGoalMilestone, map[string]any{
				"goal_id":   goal.ID,
				"goal_name": goal.Name,
				"milestone": milestone,
				"progress":  progress,
			})
			return
		}
	}
}
