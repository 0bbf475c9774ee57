package bills

import "context"

type Repository interface {
	// Transaction runs fn against a transactional copy of the repository.
	// Returning an error rolls back everything fn did.
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateBill(ctx context.Context, bill *Bill) error
	GetBillByID(ctx context.Context, billID string) (*Bill, error)
	// ListBillsForUser returns bills the user created or participates in.
	ListBillsForUser(ctx context.Context, userID string, filter ListFilter) ([]Bill, int64, error)
	SaveBill(ctx context.Context, bill *Bill) error
	// DeleteBill removes the bill and cascades to its participant rows.
	DeleteBill(ctx context.Context, billID string) error

	CreateParticipants(ctx context.Context, participants []BillParticipant) error
	ListParticipants(ctx context.Context, billID string) ([]BillParticipant, error)
	GetParticipant(ctx context.Context, billID, participantID string) (*BillParticipant, error)
	SaveParticipant(ctx context.Context, participant *BillParticipant) error
}
