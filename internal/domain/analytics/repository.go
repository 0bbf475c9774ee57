package analytics

import (
	"context"

	"fintrack-go/internal/domain/bills"
)

// Repository exposes the read-only queries the reporter derives views
// from. Nothing here mutates state.
type Repository interface {
	ListParticipants(ctx context.Context, billID string) ([]bills.BillParticipant, error)
	// BillsForUser returns bills the user created or participates in.
	BillsForUser(ctx context.Context, userID string) ([]bills.Bill, error)
	// ParticipationsByUser returns the user's own participant rows.
	ParticipationsByUser(ctx context.Context, userID string) ([]bills.BillParticipant, error)
	// ParticipantsForCreator returns participant rows of bills the user created.
	ParticipantsForCreator(ctx context.Context, creatorID string) ([]bills.BillParticipant, error)
	// CategoryTotals aggregates the user's expenses per category.
	CategoryTotals(ctx context.Context, userID string, filter BreakdownFilter) ([]CategoryTotal, error)
}
