package analytics

import (
	"context"
	"time"

	"fintrack-go/internal/domain/bills"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// BillProgress reports how many participants have paid, as a percentage.
func (s *Service) BillProgress(ctx context.Context, billID string) (*BillProgress, error) {
	participants, err := s.repo.ListParticipants(ctx, billID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, bills.ErrBillNotFound
	}

	paid := 0
	for _, p := range participants {
		if p.IsPaid {
			paid++
		}
	}
	return &BillProgress{
		BillID:     billID,
		PaidCount:  paid,
		TotalCount: len(participants),
		Percent:    float64(paid) / float64(len(participants)) * 100,
	}, nil
}

// DashboardSummary aggregates the user's bill position. you_owe sums the
// user's own unpaid shares; owed_to_you sums every unpaid share on bills
// the user created.
func (s *Service) DashboardSummary(ctx context.Context, userID string) (*DashboardSummary, error) {
	var summary DashboardSummary

	own, err := s.repo.ParticipationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range own {
		if !p.IsPaid {
			summary.YouOwe += p.AmountOwed
		}
	}

	created, err := s.repo.ParticipantsForCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range created {
		if !p.IsPaid {
			summary.OwedToYou += p.AmountOwed
		}
	}

	userBills, err := s.repo.BillsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, bill := range userBills {
		if bill.Status != bills.StatusCompleted {
			summary.ActiveBills++
		}
		if bill.DueDate.Year() == now.Year() && bill.DueDate.Month() == now.Month() {
			summary.BillsThisMonth++
		}
	}

	return &summary, nil
}

// CategoryBreakdown totals the user's expenses per category over the
// optional date window.
func (s *Service) CategoryBreakdown(ctx context.Context, userID string, filter BreakdownFilter) ([]CategoryTotal, error) {
	return s.repo.CategoryTotals(ctx, userID, filter)
}
