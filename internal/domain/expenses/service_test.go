package expenses

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-go/internal/domain/buckets"
	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/money"
	"fintrack-go/internal/notify"
)

type budgetLinkKey struct{ expenseID, budgetID string }
type goalLinkKey struct{ expenseID, goalID string }

type fakeExpenseRepo struct {
	expenses    map[string]*Expense
	budgetLinks map[budgetLinkKey]*ExpenseBudgetLink
	goalLinks   map[goalLinkKey]*ExpenseSavingsGoalLink
	budgets     map[string]*buckets.Budget
	goals       map[string]*buckets.SavingsGoal
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{
		expenses:    make(map[string]*Expense),
		budgetLinks: make(map[budgetLinkKey]*ExpenseBudgetLink),
		goalLinks:   make(map[goalLinkKey]*ExpenseSavingsGoalLink),
		budgets:     make(map[string]*buckets.Budget),
		goals:       make(map[string]*buckets.SavingsGoal),
	}
}

func (r *fakeExpenseRepo) snapshot() *fakeExpenseRepo {
	copied := newFakeExpenseRepo()
	for k, v := range r.expenses {
		c := *v
		copied.expenses[k] = &c
	}
	for k, v := range r.budgetLinks {
		c := *v
		copied.budgetLinks[k] = &c
	}
	for k, v := range r.goalLinks {
		c := *v
		copied.goalLinks[k] = &c
	}
	for k, v := range r.budgets {
		c := *v
		copied.budgets[k] = &c
	}
	for k, v := range r.goals {
		c := *v
		copied.goals[k] = &c
	}
	return copied
}

// Transaction mimics rollback: on error the pre-transaction state is
// restored, so atomicity assertions hold against this fake.
func (r *fakeExpenseRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	saved := r.snapshot()
	if err := fn(r); err != nil {
		*r = *saved
		return err
	}
	return nil
}

func (r *fakeExpenseRepo) CreateExpense(ctx context.Context, expense *Expense) error {
	c := *expense
	r.expenses[expense.ID] = &c
	return nil
}

func (r *fakeExpenseRepo) GetExpenseByID(ctx context.Context, userID, expenseID string) (*Expense, error) {
	expense, ok := r.expenses[expenseID]
	if !ok || expense.UserID != userID {
		return nil, ErrExpenseNotFound
	}
	c := *expense
	return &c, nil
}

func (r *fakeExpenseRepo) ListExpenses(ctx context.Context, userID string, filter ListFilter) ([]Expense, int64, error) {
	result := make([]Expense, 0)
	for _, expense := range r.expenses {
		if expense.UserID == userID {
			result = append(result, *expense)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeExpenseRepo) UpdateExpense(ctx context.Context, expense *Expense) error {
	c := *expense
	r.expenses[expense.ID] = &c
	return nil
}

func (r *fakeExpenseRepo) DeleteExpense(ctx context.Context, expenseID string) error {
	delete(r.expenses, expenseID)
	return nil
}

func (r *fakeExpenseRepo) CreateBudgetLink(ctx context.Context, link *ExpenseBudgetLink) error {
	c := *link
	r.budgetLinks[budgetLinkKey{link.ExpenseID, link.BudgetID}] = &c
	return nil
}

func (r *fakeExpenseRepo) ListBudgetLinks(ctx context.Context, expenseID string) ([]ExpenseBudgetLink, error) {
	result := make([]ExpenseBudgetLink, 0)
	for _, link := range r.budgetLinks {
		if link.ExpenseID == expenseID {
			result = append(result, *link)
		}
	}
	return result, nil
}

func (r *fakeExpenseRepo) DeleteBudgetLink(ctx context.Context, expenseID, budgetID string) error {
	delete(r.budgetLinks, budgetLinkKey{expenseID, budgetID})
	return nil
}

func (r *fakeExpenseRepo) CreateSavingsGoalLink(ctx context.Context, link *ExpenseSavingsGoalLink) error {
	c := *link
	r.goalLinks[goalLinkKey{link.ExpenseID, link.SavingsGoalID}] = &c
	return nil
}

func (r *fakeExpenseRepo) ListSavingsGoalLinks(ctx context.Context, expenseID string) ([]ExpenseSavingsGoalLink, error) {
	result := make([]ExpenseSavingsGoalLink, 0)
	for _, link := range r.goalLinks {
		if link.ExpenseID == expenseID {
			result = append(result, *link)
		}
	}
	return result, nil
}

func (r *fakeExpenseRepo) DeleteSavingsGoalLink(ctx context.Context, expenseID, goalID string) error {
	delete(r.goalLinks, goalLinkKey{expenseID, goalID})
	return nil
}

func (r *fakeExpenseRepo) GetBudgetForUpdate(ctx context.Context, budgetID string) (*buckets.Budget, error) {
	budget, ok := r.budgets[budgetID]
	if !ok {
		return nil, buckets.ErrBudgetNotFound
	}
	c := *budget
	return &c, nil
}

func (r *fakeExpenseRepo) SaveBudget(ctx context.Context, budget *buckets.Budget) error {
	c := *budget
	r.budgets[budget.ID] = &c
	return nil
}

func (r *fakeExpenseRepo) GetSavingsGoalForUpdate(ctx context.Context, goalID string) (*buckets.SavingsGoal, error) {
	goal, ok := r.goals[goalID]
	if !ok {
		return nil, buckets.ErrSavingsGoalNotFound
	}
	c := *goal
	return &c, nil
}

func (r *fakeExpenseRepo) SaveSavingsGoal(ctx context.Context, goal *buckets.SavingsGoal) error {
	c := *goal
	r.goals[goal.ID] = &c
	return nil
}

type fakeCategoryLookup struct {
	ids map[string]struct{}
}

func (l *fakeCategoryLookup) FindByID(ctx context.Context, categoryID string) (*categories.Category, error) {
	if _, ok := l.ids[categoryID]; !ok {
		return nil, categories.ErrCategoryNotFound
	}
	return &categories.Category{ID: categoryID, Name: "Groceries"}, nil
}

type capturedTrigger struct {
	userID  string
	kind    notify.Kind
	payload map[string]any
}

type fakeNotifier struct {
	triggers []capturedTrigger
}

func (n *fakeNotifier) Notify(_ context.Context, userID string, kind notify.Kind, payload map[string]any) {
	n.triggers = append(n.triggers, capturedTrigger{userID: userID, kind: kind, payload: payload})
}

func newTestService(repo *fakeExpenseRepo, notifier notify.Notifier) *Service {
	lookup := &fakeCategoryLookup{ids: map[string]struct{}{"cat-1": {}}}
	return NewService(repo, lookup, notifier, DefaultThresholds())
}

func seedBudget(repo *fakeExpenseRepo, id string, total money.Money) {
	repo.budgets[id] = &buckets.Budget{ID: id, UserID: "user-1", Name: id, TotalAmount: total}
}

func seedGoal(repo *fakeExpenseRepo, id string, target, current money.Money) {
	status := buckets.GoalStatusActive
	if current >= target {
		status = buckets.GoalStatusCompleted
	}
	repo.goals[id] = &buckets.SavingsGoal{
		ID: id, UserID: "user-1", Name: id,
		TargetAmount: target, CurrentAmount: current, Status: status,
	}
}

func baseInput(amount money.Money) CreateExpenseInput {
	return CreateExpenseInput{
		UserID:      "user-1",
		Amount:      amount,
		Description: "lunch",
		CategoryID:  "cat-1",
		Date:        time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestAllocationReversalRoundTrip(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))

	in := baseInput(money.Money(5000)) // 50.00
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}

	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, money.Money(5000), repo.budgets["budget-1"].SpentAmount)

	_, err = svc.UnlinkExpense(ctx, UnlinkInput{
		ExpenseID: created.ID,
		UserID:    "user-1",
		BudgetIDs: []string{"budget-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, money.Money(0), repo.budgets["budget-1"].SpentAmount)
	assert.Empty(t, repo.budgetLinks)

	// expense itself survives a partial unlink
	_, err = svc.GetExpense(ctx, "user-1", created.ID)
	require.NoError(t, err)
}

func TestDeleteWithoutUnlinkSameEndState(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))

	in := baseInput(money.Money(5000))
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}

	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)
	require.Equal(t, money.Money(5000), repo.budgets["budget-1"].SpentAmount)

	require.NoError(t, svc.DeleteExpense(ctx, "user-1", created.ID))

	assert.Equal(t, money.Money(0), repo.budgets["budget-1"].SpentAmount)
	assert.Empty(t, repo.budgetLinks)
	assert.Empty(t, repo.expenses)
}

func TestEqualSplitEachBudgetClaimsFullAmount(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))
	seedBudget(repo, "budget-2", money.Money(100000))

	in := baseInput(money.Money(4000)) // 40.00
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1", "budget-2"}}

	_, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, money.Money(4000), repo.budgets["budget-1"].SpentAmount)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-2"].SpentAmount)
}

func TestManualDistributionMismatchRejectedBeforeAnyWrite(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))
	seedBudget(repo, "budget-2", money.Money(100000))

	in := baseInput(money.Money(10000)) // 100.00 vs manual [30, 60]
	in.Budgets = AllocationSpec{
		Type:      split.DistributionManual,
		BucketIDs: []string{"budget-1", "budget-2"},
		Amounts:   []money.Money{3000, 6000},
	}

	_, err := svc.CreateExpense(ctx, in)
	assert.ErrorIs(t, err, split.ErrManualSumMismatch)
	assert.Empty(t, repo.expenses)
	assert.Equal(t, money.Money(0), repo.budgets["budget-1"].SpentAmount)
}

func TestMissingBucketMidLoopLeavesZeroSideEffects(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))

	in := baseInput(money.Money(4000))
	in.Budgets = AllocationSpec{
		Type:      split.DistributionEqualSplit,
		BucketIDs: []string{"budget-1", "budget-missing"},
	}

	_, err := svc.CreateExpense(ctx, in)
	assert.ErrorIs(t, err, buckets.ErrBudgetNotFound)

	// the first budget's apply must have been rolled back with the rest
	assert.Equal(t, money.Money(0), repo.budgets["budget-1"].SpentAmount)
	assert.Empty(t, repo.expenses)
	assert.Empty(t, repo.budgetLinks)
}

func TestSingleBucketAlwaysReceivesFullAmount(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))

	in := baseInput(money.Money(4000))
	in.Budgets = AllocationSpec{Type: split.DistributionHalf, BucketIDs: []string{"budget-1"}}

	_, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-1"].SpentAmount)
}

func TestHalfDistribution(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))
	seedBudget(repo, "budget-2", money.Money(100000))

	in := baseInput(money.Money(4000))
	in.Budgets = AllocationSpec{Type: split.DistributionHalf, BucketIDs: []string{"budget-1", "budget-2"}}

	_, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, money.Money(2000), repo.budgets["budget-1"].SpentAmount)
	assert.Equal(t, money.Money(2000), repo.budgets["budget-2"].SpentAmount)
}

func TestNoneDistributionLeavesSelectedBucketsUntouched(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))
	seedGoal(repo, "goal-1", money.Money(10000), money.Money(5000))

	// none means the selected buckets are recorded client-side only; the
	// server must not link or debit them
	in := baseInput(money.Money(4000))
	in.Budgets = AllocationSpec{Type: split.DistributionNone, BucketIDs: []string{"budget-1"}}
	in.SavingsGoals = AllocationSpec{Type: split.DistributionNone, BucketIDs: []string{"goal-1"}}

	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, created.BudgetLinks)
	assert.Empty(t, created.SavingsGoalLinks)
	assert.Equal(t, money.Money(0), repo.budgets["budget-1"].SpentAmount)
	assert.Equal(t, money.Money(5000), repo.goals["goal-1"].CurrentAmount)

	updated, err := svc.UpdateExpense(ctx, UpdateExpenseInput{
		ExpenseID:    created.ID,
		UserID:       "user-1",
		Budgets:      &AllocationSpec{Type: split.DistributionNone, BucketIDs: []string{"budget-1"}},
		SavingsGoals: &AllocationSpec{Type: split.DistributionNone, BucketIDs: []string{"goal-1"}},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.BudgetLinks)
	assert.Empty(t, updated.SavingsGoalLinks)
	assert.Equal(t, money.Money(0), repo.budgets["budget-1"].SpentAmount)
}

func TestSavingsGoalApplyAndReverse(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedGoal(repo, "goal-1", money.Money(10000), money.Money(10000)) // completed

	in := baseInput(money.Money(3000))
	in.SavingsGoals = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"goal-1"}}

	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	// applying spends from the goal and regresses it below target
	assert.Equal(t, money.Money(7000), repo.goals["goal-1"].CurrentAmount)
	assert.Equal(t, buckets.GoalStatusActive, repo.goals["goal-1"].Status)

	// deleting the expense restores the balance and the completed status
	require.NoError(t, svc.DeleteExpense(ctx, "user-1", created.ID))
	assert.Equal(t, money.Money(10000), repo.goals["goal-1"].CurrentAmount)
	assert.Equal(t, buckets.GoalStatusCompleted, repo.goals["goal-1"].Status)
}

func TestUpdateExpenseIgnoresAlreadyLinkedBuckets(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))
	seedBudget(repo, "budget-2", money.Money(100000))

	in := baseInput(money.Money(4000))
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}
	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	// resubmitting budget-1 plus a new budget-2 only applies budget-2
	updated, err := svc.UpdateExpense(ctx, UpdateExpenseInput{
		ExpenseID: created.ID,
		UserID:    "user-1",
		Budgets: &AllocationSpec{
			Type:      split.DistributionEqualSplit,
			BucketIDs: []string{"budget-1", "budget-2"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.BudgetLinks, 2)

	assert.Equal(t, money.Money(4000), repo.budgets["budget-1"].SpentAmount)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-2"].SpentAmount)

	// a second identical update changes nothing
	_, err = svc.UpdateExpense(ctx, UpdateExpenseInput{
		ExpenseID: created.ID,
		UserID:    "user-1",
		Budgets: &AllocationSpec{
			Type:      split.DistributionEqualSplit,
			BucketIDs: []string{"budget-1", "budget-2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-1"].SpentAmount)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-2"].SpentAmount)
}

func TestManualUpdateKeepsCallerAmountsForRemainingBuckets(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))
	seedBudget(repo, "budget-2", money.Money(100000))

	in := baseInput(money.Money(10000)) // 100.00
	in.Budgets = AllocationSpec{Type: split.DistributionManual, BucketIDs: []string{"budget-1"}, Amounts: []money.Money{10000}}
	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)
	require.Equal(t, money.Money(10000), repo.budgets["budget-1"].SpentAmount)

	// budget-1 is already linked, so only budget-2 is new. Its share must
	// stay the caller-supplied 40.00 and the manual sum check must run
	// against the full selection, not the one remaining bucket.
	updated, err := svc.UpdateExpense(ctx, UpdateExpenseInput{
		ExpenseID: created.ID,
		UserID:    "user-1",
		Budgets: &AllocationSpec{
			Type:      split.DistributionManual,
			BucketIDs: []string{"budget-1", "budget-2"},
			Amounts:   []money.Money{6000, 4000},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.BudgetLinks, 2)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-2"].SpentAmount)
	assert.Equal(t, money.Money(10000), repo.budgets["budget-1"].SpentAmount)
}

func TestUpdateExpensePatchesScalars(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, baseInput(money.Money(4000)))
	require.NoError(t, err)

	newAmount := money.Money(5500)
	newDescription := "dinner"
	updated, err := svc.UpdateExpense(ctx, UpdateExpenseInput{
		ExpenseID:   created.ID,
		UserID:      "user-1",
		Amount:      &newAmount,
		Description: &newDescription,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Money(5500), updated.Amount)
	assert.Equal(t, "dinner", updated.Description)
}

func TestBudgetThresholdNotifications(t *testing.T) {
	repo := newFakeExpenseRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(10000)) // 100.00 budget

	in := baseInput(money.Money(9000)) // takes usage to 90%
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}
	_, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	require.Len(t, notifier.triggers, 1)
	assert.Equal(t, notify.KindBudgetAlert, notifier.triggers[0].kind)

	in = baseInput(money.Money(2000)) // 110%
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}
	_, err = svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	require.Len(t, notifier.triggers, 2)
	assert.Equal(t, notify.KindBudgetExceeded, notifier.triggers[1].kind)

	// thresholds re-evaluate on each apply, so the next allocation fires again
	in = baseInput(money.Money(100))
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}
	_, err = svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	require.Len(t, notifier.triggers, 3)
	assert.Equal(t, notify.KindBudgetExceeded, notifier.triggers[2].kind)
}

func TestUnlinkSkipsUnknownIDs(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()
	seedBudget(repo, "budget-1", money.Money(100000))

	in := baseInput(money.Money(4000))
	in.Budgets = AllocationSpec{Type: split.DistributionEqualSplit, BucketIDs: []string{"budget-1"}}
	created, err := svc.CreateExpense(ctx, in)
	require.NoError(t, err)

	result, err := svc.UnlinkExpense(ctx, UnlinkInput{
		ExpenseID: created.ID,
		UserID:    "user-1",
		BudgetIDs: []string{"never-linked"},
	})
	require.NoError(t, err)
	assert.Len(t, result.BudgetLinks, 1)
	assert.Equal(t, money.Money(4000), repo.budgets["budget-1"].SpentAmount)
}

func TestCreateExpenseUnknownCategory(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)

	in := baseInput(money.Money(4000))
	in.CategoryID = "cat-missing"

	_, err := svc.CreateExpense(context.Background(), in)
	assert.ErrorIs(t, err, categories.ErrCategoryNotFound)
}

func TestCreateExpenseValidation(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	in := baseInput(money.Money(0))
	_, err := svc.CreateExpense(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	in = baseInput(money.Money(100))
	in.Date = time.Time{}
	_, err = svc.CreateExpense(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDeleteExpenseOwnership(t *testing.T) {
	repo := newFakeExpenseRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, baseInput(money.Money(4000)))
	require.NoError(t, err)

	err = svc.DeleteExpense(ctx, "user-2", created.ID)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}
