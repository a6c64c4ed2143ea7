package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"debt-ledger/internal/domain"
	"debt-ledger/internal/service"
)

type DebtorService interface {
	ListDebtors(ctx context.Context) ([]domain.DebtorSummary, error)
	GetDebtor(ctx context.Context, id int64) (*domain.DebtorDetail, error)
	CreateDebtor(ctx context.Context, in domain.DebtorInput) (int64, error)
	UpdateDebtor(ctx context.Context, id int64, in domain.DebtorInput) error
	DeleteDebtor(ctx context.Context, id int64) error
}

type ProcedureService interface {
	ListProcedures(ctx context.Context, debtorID *int64) ([]domain.EnforcementProcedure, error)
	GetProcedure(ctx context.Context, id int64) (*domain.EnforcementProcedure, error)
	CreateProcedure(ctx context.Context, in domain.ProcedureInput) (int64, error)
	UpdateProcedure(ctx context.Context, id int64, in domain.ProcedureInput) error
	DeleteProcedure(ctx context.Context, id int64) error
}

type PaymentService interface {
	ListPayments(ctx context.Context, debtorID *int64) ([]domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	CreatePayment(ctx context.Context, in domain.PaymentInput) (int64, error)
	UpdatePayment(ctx context.Context, id int64, in domain.PaymentInput) error
	DeletePayment(ctx context.Context, id int64) error
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context) domain.PortfolioStats
}

type ExportService interface {
	StartDebtorsExport(ctx context.Context) (string, error)
	GetExports(ctx context.Context) ([]service.ExportStatus, error)
	GetExport(ctx context.Context, exportID string) (*service.ExportStatus, error)
}

// FileStore resolves a stored export file name to a local path.
type FileStore interface {
	Open(fileName string) (string, error)
}

type Handler struct {
	debtors    DebtorService
	procedures ProcedureService
	payments   PaymentService
	dashboard  DashboardService
	exports    ExportService
}

func NewHandler(debtors DebtorService, procedures ProcedureService, payments PaymentService, dashboard DashboardService, exports ExportService) *Handler {
	return &Handler{
		debtors:    debtors,
		procedures: procedures,
		payments:   payments,
		dashboard:  dashboard,
		exports:    exports,
	}
}

// RouterOptions carries the optional non-API surfaces of the router.
type RouterOptions struct {
	Files        FileStore
	FilesPrefix  string
	WebSocket    http.HandlerFunc
	StaticDir    string
	WriteTimeout time.Duration
}

func (h *Handler) InitRouter() *chi.Mux {
	return h.InitRouterWith(RouterOptions{})
}

func (h *Handler) InitRouterWith(opts RouterOptions) *chi.Mux {
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.FilesPrefix == "" {
		opts.FilesPrefix = "/files"
	}

	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
			MaxAge:         300,
		}),
		securityHeaders,
	)

	// Upgraded connections outlive the request timeout.
	if opts.WebSocket != nil {
		r.Get("/ws", opts.WebSocket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.WriteTimeout))

		r.Route("/api", func(r chi.Router) {
			r.NotFound(func(w http.ResponseWriter, r *http.Request) {
				ErrorNotFound(w, msgNotFound)
			})

			r.Route("/debtors", func(r chi.Router) {
				r.Get("/", h.listDebtors)
				r.Post("/", h.createDebtor)
				r.Get("/{id}", h.getDebtor)
				r.Put("/{id}", h.updateDebtor)
				r.Delete("/{id}", h.deleteDebtor)
			})

			r.Route("/enforcement-procedures", func(r chi.Router) {
				r.Get("/", h.listProcedures)
				r.Post("/", h.createProcedure)
				r.Get("/{id}", h.getProcedure)
				r.Put("/{id}", h.updateProcedure)
				r.Delete("/{id}", h.deleteProcedure)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.listPayments)
				r.Post("/", h.createPayment)
				r.Get("/{id}", h.getPayment)
				r.Put("/{id}", h.updatePayment)
				r.Delete("/{id}", h.deletePayment)
			})

			r.Get("/dashboard-stats", h.dashboardStats)

			if h.exports != nil {
				r.Route("/exports", func(r chi.Router) {
					r.Get("/", h.listExports)
					r.Post("/debtors", h.exportDebtors)
					r.Get("/{export_id}", h.getExport)
				})
			}
		})

		if opts.Files != nil {
			r.Get(opts.FilesPrefix+"/{file}", serveExportFile(opts.Files))
		}
	})

	r.NotFound(spaFallback(opts.StaticDir))

	return r
}

// securityHeaders sets the response headers browsers use to harden a page.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("X-DNS-Prefetch-Control", "off")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
