package bills

import (
	"time"

	"fintrack-go/internal/domain/split"
	"fintrack-go/internal/money"
)

// Status advances pending -> partial -> completed as participants pay.
// There is no unpay operation, so it never moves backwards.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPartial   Status = "partial"
	StatusCompleted Status = "completed"
)

type Bill struct {
	ID          string              `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string              `gorm:"not null" json:"name"`
	TotalAmount money.Money         `gorm:"type:bigint;not null" json:"total_amount"`
	SplitType   split.BillSplitType `gorm:"not null" json:"split_type"`
	DueDate     time.Time           `gorm:"type:date;not null" json:"due_date"`
	Status      Status              `gorm:"not null;default:pending" json:"status"`
	CreatorID   string              `gorm:"type:uuid;index;not null" json:"creator_id"`
	CategoryID  string              `gorm:"type:uuid;not null" json:"category_id"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// BillParticipant carries one user's share of a bill. The (bill, user)
// pair is unique; the creator always has a row.
type BillParticipant struct {
	ID         string      `gorm:"type:uuid;primaryKey" json:"id"`
	BillID     string      `gorm:"type:uuid;uniqueIndex:idx_bill_user;not null" json:"bill_id"`
	UserID     string      `gorm:"type:uuid;uniqueIndex:idx_bill_user;not null" json:"user_id"`
	AmountOwed money.Money `gorm:"type:bigint;not null" json:"amount_owed"`
	IsPaid     bool        `gorm:"not null;default:false" json:"is_paid"`
	PaidAt     *time.Time  `json:"paid_at,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

type BillWithParticipants struct {
	Bill         Bill              `json:"bill"`
	Participants []BillParticipant `json:"participants"`
}

// StatusFromParticipants derives the bill status from payment state.
func StatusFromParticipants(participants []BillParticipant) Status {
	if len(participants) == 0 {
		return StatusPending
	}
	paid := 0
	for _, p := range participants {
		if p.IsPaid {
			paid++
		}
	}
	switch {
	case paid == len(participants):
		return StatusCompleted
	case paid > 0:
		return StatusPartial
	default:
		return StatusPending
	}
}

type CreateBillInput struct {
	CreatorID      string
	Name           string
	TotalAmount    money.Money
	SplitType      split.BillSplitType
	DueDate        time.Time
	CategoryID     string
	ParticipantIDs []string
	Percentages    []float64
	Amounts        []money.Money
}

type UpdateBillInput struct {
	BillID     string
	UserID     string
	Name       *string
	DueDate    *time.Time
	CategoryID *string
}

type RequestPaymentInput struct {
	BillID      string
	RequesterID string
	UserIDs     []string
	Message     string
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
