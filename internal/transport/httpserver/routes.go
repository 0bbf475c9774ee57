package httpserver

import (
	"net/http"
	"time"

	"fintrack-go/internal/config"
	"fintrack-go/internal/transport/httpserver/handler"
	identitymw "fintrack-go/internal/transport/httpserver/middleware"
	"fintrack-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users identitymw.UserSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(identitymw.NewCORS([]string{"http://localhost:5173"}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		identity := identitymw.NewIdentity(cfg.Identity, users, log)
		r.Group(func(r chi.Router) {
			r.Use(identity.Middleware)

			r.Get("/bills", handlers.ListBills)
			r.Post("/bills", handlers.CreateBill)
			r.Get("/bills/{id}", handlers.GetBill)
			r.Patch("/bills/{id}", handlers.UpdateBill)
			r.Patch("/bills/{id}/status", handlers.UpdateBillStatus)
			r.Delete("/bills/{id}", handlers.DeleteBill)
			r.Post("/bills/{id}/participants/{participant_id}/pay", handlers.MarkPaymentPaid)
			r.Post("/bills/{id}/request-payment", handlers.RequestPayment)
			r.Get("/bills/{id}/progress", handlers.BillProgress)

			r.Get("/expenses", handlers.ListExpenses)
			r.Post("/expenses", handlers.CreateExpense)
			r.Get("/expenses/{id}", handlers.GetExpense)
			r.Patch("/expenses/{id}", handlers.UpdateExpense)
			r.Delete("/expenses/{id}", handlers.DeleteExpense)
			r.Post("/expenses/{id}/unlink", handlers.UnlinkExpense)

			r.Get("/budgets", handlers.ListBudgets)
			r.Post("/budgets", handlers.CreateBudget)
			r.Get("/budgets/{id}", handlers.GetBudget)

			r.Get("/savings-goals", handlers.ListSavingsGoals)
			r.Post("/savings-goals", handlers.CreateSavingsGoal)
			r.Get("/savings-goals/{id}", handlers.GetSavingsGoal)
			r.Post("/savings-goals/{id}/add", handlers.AddToSavingsGoal)
			r.Post("/savings-goals/{id}/withdraw", handlers.WithdrawFromSavingsGoal)

			r.Get("/categories", handlers.ListCategories)
			r.Post("/categories", handlers.CreateCategory)

			r.Get("/analytics/dashboard", handlers.DashboardSummary)
			r.Get("/analytics/by-category", handlers.CategoryBreakdown)
		})
	})

	return r
}
