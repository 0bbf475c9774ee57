package handler

import (
	analyticsdomain "fintrack-go/internal/domain/analytics"
	billsdomain "fintrack-go/internal/domain/bills"
	bucketsdomain "fintrack-go/internal/domain/buckets"
	categoriesdomain "fintrack-go/internal/domain/categories"
	expensesdomain "fintrack-go/internal/domain/expenses"
	"fintrack-go/pkg/logger"
)

type Handlers struct {
	Bills      *billsdomain.Service
	Expenses   *expensesdomain.Service
	Buckets    *bucketsdomain.Service
	Analytics  *analyticsdomain.Service
	Categories categoriesdomain.Repository

	log logger.Logger
}

func New(
	bills *billsdomain.Service,
	expenses *expensesdomain.Service,
	buckets *bucketsdomain.Service,
	analytics *analyticsdomain.Service,
	categories categoriesdomain.Repository,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Bills:      bills,
		Expenses:   expenses,
		Buckets:    buckets,
		Analytics:  analytics,
		Categories: categories,
		log:        log,
	}
}
