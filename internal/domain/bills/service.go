package bills

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack-go/internal/domain/categories"
	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/domain/user"
	"fintrack-go/internal/metrics"
	"fintrack-go/internal/notify"
)

type CategoryLookup interface {
	FindByID(ctx context.Context, categoryID string) (*categories.Category, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, userID string) (*user.User, error)
}

type Service struct {
	repo     Repository
	users    UserLookup
	category CategoryLookup
	notifier notify.Notifier
}

func NewService(repo Repository, users UserLookup, category CategoryLookup, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		repo:     repo,
		users:    users,
		category: category,
		notifier: notifier,
	}
}

// CreateBill resolves the category and every named participant, computes
// each share, and persists the bill with its participant rows in one
// transaction. The creator always ends up a participant: when absent from
// the named list they are appended and their share absorbs the remainder.
func (s *Service) CreateBill(ctx context.Context, in CreateBillInput) (*BillWithParticipants, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if in.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.DueDate.IsZero() {
		return nil, ErrInvalidDueDate
	}

	if _, err := s.category.FindByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	participantIDs := make([]string, 0, len(in.ParticipantIDs)+1)
	creatorNamed := false
	for _, id := range in.ParticipantIDs {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return nil, err
		}
		if id == in.CreatorID {
			creatorNamed = true
		}
		participantIDs = append(participantIDs, id)
	}
	if !creatorNamed {
		if _, err := s.users.FindByID(ctx, in.CreatorID); err != nil {
			return nil, err
		}
		participantIDs = append(participantIDs, in.CreatorID)
	}

	shares, err := split.BillShares(in.SplitType, in.TotalAmount, split.ShareInput{
		Participants:    len(participantIDs),
		Percentages:     in.Percentages,
		Amounts:         in.Amounts,
		CreatorAppended: !creatorNamed,
	})
	if err != nil {
		return nil, err
	}

	bill := Bill{
		ID:          uuid.NewString(),
		Name:        name,
		TotalAmount: in.TotalAmount,
		SplitType:   in.SplitType,
		DueDate:     in.DueDate,
		Status:      StatusPending,
		CreatorID:   in.CreatorID,
		CategoryID:  in.CategoryID,
	}

	participants := make([]BillParticipant, 0, len(participantIDs))
	for i, userID := range participantIDs {
		participants = append(participants, BillParticipant{
			ID:         uuid.NewString(),
			BillID:     bill.ID,
			UserID:     userID,
			AmountOwed: shares[i],
			IsPaid:     false,
		})
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateBill(ctx, &bill); err != nil {
			return err
		}
		return tx.CreateParticipants(ctx, participants)
	})
	if err != nil {
		return nil, err
	}

	return &BillWithParticipants{Bill: bill, Participants: participants}, nil
}

// MarkPaymentPaid marks the participant row paid and recomputes the bill
// status from all participant rows, observing the just-written row. Status
// only ever advances because payments cannot be undone.
func (s *Service) MarkPaymentPaid(ctx context.Context, billID, participantID string) (*BillWithParticipants, error) {
	var result BillWithParticipants

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		bill, err := tx.GetBillByID(ctx, billID)
		if err != nil {
			return err
		}

		participant, err := tx.GetParticipant(ctx, billID, participantID)
		if err != nil {
			return err
		}

		if !participant.IsPaid {
			now := time.Now().UTC()
			participant.IsPaid = true
			participant.PaidAt = &now
			if err := tx.SaveParticipant(ctx, participant); err != nil {
				return err
			}
		}

		participants, err := tx.ListParticipants(ctx, billID)
		if err != nil {
			return err
		}

		status := StatusFromParticipants(participants)
		if status != bill.Status {
			bill.Status = status
			bill.UpdatedAt = time.Now().UTC()
			if err := tx.SaveBill(ctx, bill); err != nil {
				return err
			}
		}

		result.Bill = *bill
		result.Participants = participants
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsMarked.Inc()
	s.notifyPayment(ctx, &result)

	return &result, nil
}

func (s *Service) notifyPayment(ctx context.Context, bill *BillWithParticipants) {
	payload := map[string]any{
		"bill_id":   bill.Bill.ID,
		"bill_name": bill.Bill.Name,
		"status":    string(bill.Bill.Status),
		"progress":  Progress(bill.Participants),
	}
	switch bill.Bill.Status {
	case StatusCompleted:
		s.notifier.Notify(ctx, bill.Bill.CreatorID, notify.KindBillPaid, payload)
	case StatusPartial:
		s.notifier.Notify(ctx, bill.Bill.CreatorID, notify.KindBillPartiallyPaid, payload)
	}
}

// Progress is the percentage of participants who have paid.
func Progress(participants []BillParticipant) float64 {
	if len(participants) == 0 {
		return 0
	}
	paid := 0
	for _, p := range participants {
		if p.IsPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(participants)) * 100
}

// UpdateBill patches basic fields. Participant dues are never recomputed
// here. Creator only.
func (s *Service) UpdateBill(ctx context.Context, in UpdateBillInput) (*Bill, error) {
	if in.CategoryID != nil {
		if _, err := s.category.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	bill, err := s.repo.GetBillByID(ctx, in.BillID)
	if err != nil {
		return nil, err
	}
	if bill.CreatorID != in.UserID {
		return nil, ErrForbidden
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		bill.Name = name
	}
	if in.DueDate != nil {
		bill.DueDate = *in.DueDate
	}
	if in.CategoryID != nil {
		bill.CategoryID = *in.CategoryID
	}
	bill.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// UpdateBillStatus sets the status directly. Creator only.
func (s *Service) UpdateBillStatus(ctx context.Context, billID, userID string, status Status) (*Bill, error) {
	bill, err := s.repo.GetBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.CreatorID != userID {
		return nil, ErrForbidden
	}

	bill.Status = status
	bill.UpdatedAt = time.Now().UTC()
	if err := s.repo.SaveBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// DeleteBill removes the bill and all of its participant rows. Creator only.
func (s *Service) DeleteBill(ctx context.Context, billID, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		bill, err := tx.GetBillByID(ctx, billID)
		if err != nil {
			return err
		}
		if bill.CreatorID != userID {
			return ErrForbidden
		}
		return tx.DeleteBill(ctx, billID)
	})
}

// RequestPayment validates every target is a participant of the bill, then
// sends one payment_request notification per target. No ledger state moves.
func (s *Service) RequestPayment(ctx context.Context, in RequestPaymentInput) error {
	bill, err := s.repo.GetBillByID(ctx, in.BillID)
	if err != nil {
		return err
	}

	participants, err := s.repo.ListParticipants(ctx, in.BillID)
	if err != nil {
		return err
	}
	member := make(map[string]BillParticipant, len(participants))
	for _, p := range participants {
		member[p.UserID] = p
	}

	targets := make([]BillParticipant, 0, len(in.UserIDs))
	for _, userID := range in.UserIDs {
		p, ok := member[userID]
		if !ok {
			return ErrForbidden
		}
		targets = append(targets, p)
	}

	for _, p := range targets {
		s.notifier.Notify(ctx, p.UserID, notify.KindPaymentRequest, map[string]any{
			"bill_id":      bill.ID,
			"bill_name":    bill.Name,
			"amount_owed":  p.AmountOwed.String(),
			"requested_by": in.RequesterID,
			"message":      in.Message,
		})
	}
	return nil
}

func (s *Service) GetBill(ctx context.Context, billID string) (*BillWithParticipants, error) {
	bill, err := s.repo.GetBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	participants, err := s.repo.ListParticipants(ctx, billID)
	if err != nil {
		return nil, err
	}
	return &BillWithParticipants{Bill: *bill, Participants: participants}, nil
}

func (s *Service) ListBills(ctx context.Context, userID string, filter ListFilter) ([]Bill, int64, error) {
	return s.repo.ListBillsForUser(ctx, userID, filter)
}
