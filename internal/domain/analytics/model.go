package analytics

import (
	"time"

	"fintrack-go/internal/money"
)

type BillProgress struct {
	BillID     string  `json:"bill_id"`
	PaidCount  int     `json:"paid_count"`
	TotalCount int     `json:"total_count"`
	Percent    float64 `json:"percent"`
}

type DashboardSummary struct {
	YouOwe         money.Money `json:"you_owe"`
	OwedToYou      money.Money `json:"owed_to_you"`
	ActiveBills    int         `json:"active_bills"`
	BillsThisMonth int         `json:"bills_this_month"`
}

type CategoryTotal struct {
	CategoryID   string      `json:"category_id"`
	CategoryName string      `json:"category_name"`
	Total        money.Money `json:"total"`
	Count        int         `json:"count"`
}

type BreakdownFilter struct {
	From time.Time
	To   time.Time
}
