package bills

import (
	"context"
	"errors"

	billsdomain "fintrack-go/internal/domain/bills"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(billsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateBill(ctx context.Context, bill *billsdomain.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *PostgresRepository) GetBillByID(ctx context.Context, billID string) (*billsdomain.Bill, error) {
	var bill billsdomain.Bill
	if err := r.db.WithContext(ctx).
		Where("id = ?", billID).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billsdomain.ErrBillNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (r *PostgresRepository) ListBillsForUser(ctx context.Context, userID string, filter billsdomain.ListFilter) ([]billsdomain.Bill, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&billsdomain.Bill{}).
		Where("creator_id = ? OR id IN (?)", userID,
			r.db.Model(&billsdomain.BillParticipant{}).
				Select("bill_id").
				Where("user_id = ?", userID))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("due_date asc, created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var bills []billsdomain.Bill
	if err := query.Find(&bills).Error; err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *PostgresRepository) SaveBill(ctx context.Context, bill *billsdomain.Bill) error {
	return r.db.WithContext(ctx).
		Model(&billsdomain.Bill{}).
		Where("id = ?", bill.ID).
		Updates(map[string]interface{}{
			"name":        bill.Name,
			"due_date":    bill.DueDate,
			"status":      bill.Status,
			"category_id": bill.CategoryID,
			"updated_at":  bill.UpdatedAt,
		}).Error
}

// DeleteBill removes the participant rows first, then the bill, as one
// explicit cascade.
func (r *PostgresRepository) DeleteBill(ctx context.Context, billID string) error {
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Delete(&billsdomain.BillParticipant{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&billsdomain.Bill{}, "id = ?", billID).Error
}

func (r *PostgresRepository) CreateParticipants(ctx context.Context, participants []billsdomain.BillParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&participants).Error
}

func (r *PostgresRepository) ListParticipants(ctx context.Context, billID string) ([]billsdomain.BillParticipant, error) {
	var participants []billsdomain.BillParticipant
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at asc").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresRepository) GetParticipant(ctx context.Context, billID, participantID string) (*billsdomain.BillParticipant, error) {
	var participant billsdomain.BillParticipant
	if err := r.db.WithContext(ctx).
		Where("bill_id = ? AND id = ?", billID, participantID).
		First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billsdomain.ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (r *PostgresRepository) SaveParticipant(ctx context.Context, participant *billsdomain.BillParticipant) error {
	return r.db.WithContext(ctx).
		Model(&billsdomain.BillParticipant{}).
		Where("id = ?", participant.ID).
		Updates(map[string]interface{}{
			"is_paid": participant.IsPaid,
			"paid_at": participant.PaidAt,
		}).Error
}
