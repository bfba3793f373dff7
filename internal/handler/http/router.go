package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
	"github.com/workzen-hrms/hrms-backend-go/internal/handler/http/middleware"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, payslipDir string, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workzen-hrms"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Stored payslip artifacts are served by their stable URL path
	fileServer(r, "/payslips", payslipDir)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", payrollHandler.ListPayrolls)
				r.Get("/list", payrollHandler.ListPayrolls)

				// Payroll generation is for admins and payroll officers
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAnyRole(user.RoleAdmin, user.RolePayrollOfficer))
					r.Post("/", payrollHandler.GenerateEmployeePayroll)
					r.Post("/generate", payrollHandler.GeneratePayrun)
				})

				r.Route("/payrun", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPayruns)

					// Approval and repair are admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/", payrollHandler.ProcessPayrunAction)
						r.Post("/sync", payrollHandler.SyncPayruns)
					})
				})
			})
		})
	})

	return r
}

func fileServer(r chi.Router, path string, root string) {
	fs := http.StripPrefix(path, http.FileServer(http.Dir(root)))
	r.Get(path+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}
