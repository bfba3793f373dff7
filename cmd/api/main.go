package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/workzen-hrms/hrms-backend-go/internal/config"
	appHTTP "github.com/workzen-hrms/hrms-backend-go/internal/handler/http"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/email"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/jwt"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/storage"
	"github.com/workzen-hrms/hrms-backend-go/internal/repository/postgresql"
	notificationService "github.com/workzen-hrms/hrms-backend-go/internal/service/notification"
	payrollService "github.com/workzen-hrms/hrms-backend-go/internal/service/payroll"
	payslipService "github.com/workzen-hrms/hrms-backend-go/internal/service/payslip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.Database)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	payrunRepo := postgresql.NewPayrunRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	payslipStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize payslip storage:", err)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	notifier := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	defer notifier.Stop()

	payslipSvc, err := payslipService.NewPayslipService(payrollRepo, payrunRepo, payslipStorage, emailService, notifier)
	if err != nil {
		log.Fatal("Failed to initialize payslip service:", err)
	}

	payrollSvc := payrollService.NewPayrollService(
		txManager,
		payrollRepo,
		payrunRepo,
		employeeRepo,
		userRepo,
		attendanceRepo,
		leaveRequestRepo,
		settingsRepo,
		payslipSvc,
		emailService,
		notifier,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(jwtService, cfg.Storage.BasePath, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
