package expenses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack-go/internal/domain/buckets"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/metrics"
	"fintrack-go/internal/money"
	"fintrack-go/internal/notify"
)

// Thresholds are the budget usage percentages that fire notifications.
// They are re-evaluated after every apply, so staying above a threshold
// keeps notifying on each new allocation.
type Thresholds struct {
	AlertPercent    float64
	ExceededPercent float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{AlertPercent: 85, ExceededPercent: 100}
}

type CategoryLookup interface {
	FindByID(ctx context.Context, categoryID string) (*categories.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryLookup
	notifier   notify.Notifier
	thresholds Thresholds
}

func NewService(repo Repository, categoryLookup CategoryLookup, notifier notify.Notifier, thresholds Thresholds) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if thresholds.ExceededPercent == 0 {
		thresholds = DefaultThresholds()
	}
	return &Service{
		repo:       repo,
		categories: categoryLookup,
		notifier:   notifier,
		thresholds: thresholds,
	}
}

// CreateExpense persists the expense and applies its budget and savings
// goal allocations in one transaction. A missing bucket partway through
// aborts the whole call with no side effects.
func (s *Service) CreateExpense(ctx context.Context, in CreateExpenseInput) (*ExpenseWithLinks, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.Date.IsZero() {
		return nil, ErrInvalidDate
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	budgetShares, err := split.Allocations(in.Budgets.Type, in.Amount, in.Budgets.Amounts, len(in.Budgets.BucketIDs))
	if err != nil {
		return nil, err
	}
	goalShares, err := split.Allocations(in.SavingsGoals.Type, in.Amount, in.SavingsGoals.Amounts, len(in.SavingsGoals.BucketIDs))
	if err != nil {
		return nil, err
	}

	expense := Expense{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Date:        in.Date,
	}

	result := ExpenseWithLinks{
		BudgetLinks:      []ExpenseBudgetLink{},
		SavingsGoalLinks: []ExpenseSavingsGoalLink{},
	}
	var touched []buckets.Budget

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateExpense(ctx, &expense); err != nil {
			return err
		}

		budgetLinks, budgetsAfter, err := applyBudgetLinks(ctx, tx, &expense, in.Budgets.BucketIDs, budgetShares)
		if err != nil {
			return err
		}
		goalLinks, err := applyGoalLinks(ctx, tx, &expense, in.SavingsGoals.BucketIDs, goalShares)
		if err != nil {
			return err
		}

		result.Expense = expense
		result.BudgetLinks = budgetLinks
		result.SavingsGoalLinks = goalLinks
		touched = budgetsAfter
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.AllocationsApplied.WithLabelValues(metrics.BucketBudget).Add(float64(len(result.BudgetLinks)))
	metrics.AllocationsApplied.WithLabelValues(metrics.BucketSavingsGoal).Add(float64(len(result.SavingsGoalLinks)))
	s.notifyBudgetThresholds(ctx, in.UserID, touched)

	return &result, nil
}

// UpdateExpense patches scalar fields and applies allocations for bucket
// ids not already linked. Resubmitting an already linked bucket id is a
// no-op, which makes the call idempotent against client retries.
func (s *Service) UpdateExpense(ctx context.Context, in UpdateExpenseInput) (*ExpenseWithLinks, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	var result ExpenseWithLinks
	var touched []buckets.Budget

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		expense, err := tx.GetExpenseByID(ctx, in.UserID, in.ExpenseID)
		if err != nil {
			return err
		}

		if in.Amount != nil {
			expense.Amount = *in.Amount
		}
		if in.Description != nil {
			expense.Description = strings.TrimSpace(*in.Description)
		}
		if in.CategoryID != nil {
			expense.CategoryID = *in.CategoryID
		}
		if in.Date != nil {
			expense.Date = *in.Date
		}
		expense.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateExpense(ctx, expense); err != nil {
			return err
		}

		if in.Budgets != nil {
			// Shares are computed over the full selected set, so manual
			// amounts validate against the expense total even when some of
			// the selected buckets are already linked.
			shares, err := split.Allocations(in.Budgets.Type, expense.Amount, in.Budgets.Amounts, len(in.Budgets.BucketIDs))
			if err != nil {
				return err
			}
			ids, shares, err := filterNewBudgetTargets(ctx, tx, expense.ID, in.Budgets.BucketIDs, shares)
			if err != nil {
				return err
			}
			_, budgetsAfter, err := applyBudgetLinks(ctx, tx, expense, ids, shares)
			if err != nil {
				return err
			}
			touched = budgetsAfter
		}

		if in.SavingsGoals != nil {
			shares, err := split.Allocations(in.SavingsGoals.Type, expense.Amount, in.SavingsGoals.Amounts, len(in.SavingsGoals.BucketIDs))
			if err != nil {
				return err
			}
			ids, shares, err := filterNewGoalTargets(ctx, tx, expense.ID, in.SavingsGoals.BucketIDs, shares)
			if err != nil {
				return err
			}
			if _, err := applyGoalLinks(ctx, tx, expense, ids, shares); err != nil {
				return err
			}
		}

		return loadLinks(ctx, tx, expense, &result)
	})
	if err != nil {
		return nil, err
	}

	s.notifyBudgetThresholds(ctx, in.UserID, touched)
	return &result, nil
}

// DeleteExpense reverses every active link against its bucket, removes the
// link rows, then removes the expense. Equivalent to unlinking everything
// and deleting.
func (s *Service) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	var reversedBudgets, reversedGoals int

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		expense, err := tx.GetExpenseByID(ctx, userID, expenseID)
		if err != nil {
			return err
		}

		budgetLinks, err := tx.ListBudgetLinks(ctx, expense.ID)
		if err != nil {
			return err
		}
		for _, link := range budgetLinks {
			if err := reverseBudgetLink(ctx, tx, link); err != nil {
				return err
			}
		}
		reversedBudgets = len(budgetLinks)

		goalLinks, err := tx.ListSavingsGoalLinks(ctx, expense.ID)
		if err != nil {
			return err
		}
		for _, link := range goalLinks {
			if err := reverseGoalLink(ctx, tx, link); err != nil {
				return err
			}
		}
		reversedGoals = len(goalLinks)

		return tx.DeleteExpense(ctx, expense.ID)
	})
	if err != nil {
		return err
	}

	metrics.AllocationsReversed.WithLabelValues(metrics.BucketBudget).Add(float64(reversedBudgets))
	metrics.AllocationsReversed.WithLabelValues(metrics.BucketSavingsGoal).Add(float64(reversedGoals))
	return nil
}

// UnlinkExpense is the partial-reversal primitive: each named bucket id
// with an existing link gets that link's stored amount reversed and the
// link row deleted. Named ids without a link are skipped. The expense and
// its remaining links are untouched.
func (s *Service) UnlinkExpense(ctx context.Context, in UnlinkInput) (*ExpenseWithLinks, error) {
	var result ExpenseWithLinks
	var reversedBudgets, reversedGoals int

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		expense, err := tx.GetExpenseByID(ctx, in.UserID, in.ExpenseID)
		if err != nil {
			return err
		}

		budgetLinks, err := tx.ListBudgetLinks(ctx, expense.ID)
		if err != nil {
			return err
		}
		linkedBudgets := make(map[string]ExpenseBudgetLink, len(budgetLinks))
		for _, link := range budgetLinks {
			linkedBudgets[link.BudgetID] = link
		}
		for _, budgetID := range in.BudgetIDs {
			link, ok := linkedBudgets[budgetID]
			if !ok {
				continue
			}
			if err := reverseBudgetLink(ctx, tx, link); err != nil {
				return err
			}
			reversedBudgets++
		}

		goalLinks, err := tx.ListSavingsGoalLinks(ctx, expense.ID)
		if err != nil {
			return err
		}
		linkedGoals := make(map[string]ExpenseSavingsGoalLink, len(goalLinks))
		for _, link := range goalLinks {
			linkedGoals[link.SavingsGoalID] = link
		}
		for _, goalID := range in.SavingsGoalIDs {
			link, ok := linkedGoals[goalID]
			if !ok {
				continue
			}
			if err := reverseGoalLink(ctx, tx, link); err != nil {
				return err
			}
			reversedGoals++
		}

		return loadLinks(ctx, tx, expense, &result)
	})
	if err != nil {
		return nil, err
	}

	metrics.AllocationsReversed.WithLabelValues(metrics.BucketBudget).Add(float64(reversedBudgets))
	metrics.AllocationsReversed.WithLabelValues(metrics.BucketSavingsGoal).Add(float64(reversedGoals))
	return &result, nil
}

func (s *Service) GetExpense(ctx context.Context, userID, expenseID string) (*ExpenseWithLinks, error) {
	expense, err := s.repo.GetExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	var result ExpenseWithLinks
	if err := loadLinks(ctx, s.repo, expense, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) ListExpenses(ctx context.Context, userID string, filter ListFilter) ([]Expense, int64, error) {
	return s.repo.ListExpenses(ctx, userID, filter)
}

func (s *Service) notifyBudgetThresholds(ctx context.Context, userID string, budgetsAfter []buckets.Budget) {
	for _, budget := range budgetsAfter {
		pct := budget.SpentPercent()
		payload := map[string]any{
			"budget_id":    budget.ID,
			"budget_name":  budget.Name,
			"spent_amount": budget.SpentAmount.String(),
			"total_amount": budget.TotalAmount.String(),
			"percent":      pct,
		}
		switch {
		case pct >= s.thresholds.ExceededPercent:
			s.notifier.Notify(ctx, userID, notify.KindBudgetExceeded, payload)
		case pct >= s.thresholds.AlertPercent:
			s.notifier.Notify(ctx, userID, notify.KindBudgetAlert, payload)
		}
	}
}

// applyBudgetLinks iterates the shares, not the ids: a none distribution
// produces no shares, so its selected buckets are left untouched.
func applyBudgetLinks(ctx context.Context, tx Repository, expense *Expense, budgetIDs []string, shares []money.Money) ([]ExpenseBudgetLink, []buckets.Budget, error) {
	links := make([]ExpenseBudgetLink, 0, len(shares))
	after := make([]buckets.Budget, 0, len(shares))

	for i := range shares {
		budgetID := budgetIDs[i]
		budget, err := tx.GetBudgetForUpdate(ctx, budgetID)
		if err != nil {
			return nil, nil, err
		}
		if budget.UserID != expense.UserID {
			return nil, nil, buckets.ErrBudgetNotFound
		}

		link := ExpenseBudgetLink{
			ExpenseID: expense.ID,
			BudgetID:  budgetID,
			Amount:    shares[i],
		}
		if err := tx.CreateBudgetLink(ctx, &link); err != nil {
			return nil, nil, err
		}

		budget.ApplySpending(shares[i])
		if err := tx.SaveBudget(ctx, budget); err != nil {
			return nil, nil, err
		}

		links = append(links, link)
		after = append(after, *budget)
	}
	return links, after, nil
}

func applyGoalLinks(ctx context.Context, tx Repository, expense *Expense, goalIDs []string, shares []money.Money) ([]ExpenseSavingsGoalLink, error) {
	links := make([]ExpenseSavingsGoalLink, 0, len(shares))

	for i := range shares {
		goalID := goalIDs[i]
		goal, err := tx.GetSavingsGoalForUpdate(ctx, goalID)
		if err != nil {
			return nil, err
		}
		if goal.UserID != expense.UserID {
			return nil, buckets.ErrSavingsGoalNotFound
		}

		link := ExpenseSavingsGoalLink{
			ExpenseID:     expense.ID,
			SavingsGoalID: goalID,
			Amount:        shares[i],
		}
		if err := tx.CreateSavingsGoalLink(ctx, &link); err != nil {
			return nil, err
		}

		// applying an expense to a goal is a withdrawal
		goal.WithdrawFunds(shares[i])
		if err := tx.SaveSavingsGoal(ctx, goal); err != nil {
			return nil, err
		}

		links = append(links, link)
	}
	return links, nil
}

func reverseBudgetLink(ctx context.Context, tx Repository, link ExpenseBudgetLink) error {
	budget, err := tx.GetBudgetForUpdate(ctx, link.BudgetID)
	if err != nil {
		return err
	}
	budget.ReverseSpending(link.Amount)
	if err := tx.SaveBudget(ctx, budget); err != nil {
		return err
	}
	return tx.DeleteBudgetLink(ctx, link.ExpenseID, link.BudgetID)
}

func reverseGoalLink(ctx context.Context, tx Repository, link ExpenseSavingsGoalLink) error {
	goal, err := tx.GetSavingsGoalForUpdate(ctx, link.SavingsGoalID)
	if err != nil {
		return err
	}
	// reversing a withdrawal adds the amount back; this can push the goal
	// over its target and flip it to completed
	goal.AddFunds(link.Amount)
	if err := tx.SaveSavingsGoal(ctx, goal); err != nil {
		return err
	}
	return tx.DeleteSavingsGoalLink(ctx, link.ExpenseID, link.SavingsGoalID)
}

func filterNewBudgetTargets(ctx context.Context, tx Repository, expenseID string, ids []string, shares []money.Money) ([]string, []money.Money, error) {
	existing, err := tx.ListBudgetLinks(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	linked := make(map[string]struct{}, len(existing))
	for _, link := range existing {
		linked[link.BudgetID] = struct{}{}
	}
	newIDs, newShares := filterTargets(ids, shares, linked)
	return newIDs, newShares, nil
}

func filterNewGoalTargets(ctx context.Context, tx Repository, expenseID string, ids []string, shares []money.Money) ([]string, []money.Money, error) {
	existing, err := tx.ListSavingsGoalLinks(ctx, expenseID)
	if err != nil {
		return nil, nil, err
	}
	linked := make(map[string]struct{}, len(existing))
	for _, link := range existing {
		linked[link.SavingsGoalID] = struct{}{}
	}
	newIDs, newShares := filterTargets(ids, shares, linked)
	return newIDs, newShares, nil
}

// filterTargets drops already-linked ids together with their computed
// shares, keeping each remaining bucket's share from the full selection.
func filterTargets(ids []string, shares []money.Money, linked map[string]struct{}) ([]string, []money.Money) {
	outIDs := make([]string, 0, len(ids))
	outShares := make([]money.Money, 0, len(shares))

	for i, id := range ids {
		if _, ok := linked[id]; ok {
			continue
		}
		outIDs = append(outIDs, id)
		if i < len(shares) {
			outShares = append(outShares, shares[i])
		}
	}
	return outIDs, outShares
}

func loadLinks(ctx context.Context, tx Repository, expense *Expense, out *ExpenseWithLinks) error {
	budgetLinks, err := tx.ListBudgetLinks(ctx, expense.ID)
	if err != nil {
		return err
	}
	goalLinks, err := tx.ListSavingsGoalLinks(ctx, expense.ID)
	if err != nil {
		return err
	}

	out.Expense = *expense
	out.BudgetLinks = budgetLinks
	out.SavingsGoalLinks = goalLinks
	return nil
}
