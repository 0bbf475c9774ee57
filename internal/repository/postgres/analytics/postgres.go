package analytics

import (
	"context"
	"fmt"
	"strings"

	analyticsdomain "fintrack-go/internal/domain/analytics"
	billsdomain "fintrack-go/internal/domain/bills"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListParticipants(ctx context.Context, billID string) ([]billsdomain.BillParticipant, error) {
	var participants []billsdomain.BillParticipant
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresRepository) BillsForUser(ctx context.Context, userID string) ([]billsdomain.Bill, error) {
	var bills []billsdomain.Bill
	if err := r.db.WithContext(ctx).
		Model(&billsdomain.Bill{}).
		Where("creator_id = ? OR id IN (?)", userID,
			r.db.Model(&billsdomain.BillParticipant{}).
				Select("bill_id").
				Where("user_id = ?", userID)).
		Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *PostgresRepository) ParticipationsByUser(ctx context.Context, userID string) ([]billsdomain.BillParticipant, error) {
	var participants []billsdomain.BillParticipant
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresRepository) ParticipantsForCreator(ctx context.Context, creatorID string) ([]billsdomain.BillParticipant, error) {
	var participants []billsdomain.BillParticipant
	if err := r.db.WithContext(ctx).
		Joins("JOIN bills ON bills.id = bill_participants.bill_id").
		Where("bills.creator_id = ?", creatorID).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *PostgresRepository) CategoryTotals(ctx context.Context, userID string, filter analyticsdomain.BreakdownFilter) ([]analyticsdomain.CategoryTotal, error) {
	conditions := []string{"e.user_id = ?"}
	args := []interface{}{userID}

	if !filter.From.IsZero() {
		conditions = append(conditions, "e.date >= ?")
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "e.date <= ?")
		args = append(args, filter.To)
	}

	query := fmt.Sprintf(
		"SELECT c.id AS category_id, c.name AS category_name, COALESCE(SUM(e.amount), 0) AS total, COUNT(e.id) AS count "+
			"FROM categories c JOIN expenses e ON e.category_id = c.id WHERE %s "+
			"GROUP BY c.id, c.name ORDER BY total DESC",
		strings.Join(conditions, " AND "))

	var rows []analyticsdomain.CategoryTotal
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
