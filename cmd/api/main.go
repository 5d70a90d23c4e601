package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/config"
	appointmentHandler "github.com/medicore/clinic-api/internal/handler/appointment"
	authHandler "github.com/medicore/clinic-api/internal/handler/auth"
	"github.com/medicore/clinic-api/internal/handler/health"
	invoiceHandler "github.com/medicore/clinic-api/internal/handler/invoice"
	labHandler "github.com/medicore/clinic-api/internal/handler/lab"
	noteHandler "github.com/medicore/clinic-api/internal/handler/note"
	patientHandler "github.com/medicore/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/medicore/clinic-api/internal/handler/prescription"
	reportHandler "github.com/medicore/clinic-api/internal/handler/report"
	userHandler "github.com/medicore/clinic-api/internal/handler/user"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/repository/postgres"
	"github.com/medicore/clinic-api/internal/router"
	"github.com/medicore/clinic-api/internal/sequence"
	appointmentService "github.com/medicore/clinic-api/internal/service/appointment"
	authService "github.com/medicore/clinic-api/internal/service/auth"
	invoiceService "github.com/medicore/clinic-api/internal/service/invoice"
	labService "github.com/medicore/clinic-api/internal/service/lab"
	noteService "github.com/medicore/clinic-api/internal/service/note"
	patientService "github.com/medicore/clinic-api/internal/service/patient"
	prescriptionService "github.com/medicore/clinic-api/internal/service/prescription"
	reportService "github.com/medicore/clinic-api/internal/service/report"
	userService "github.com/medicore/clinic-api/internal/service/user"
	"github.com/medicore/clinic-api/pkg/auth"
	"github.com/medicore/clinic-api/pkg/logger"
	"github.com/medicore/clinic-api/pkg/metrics"
	"github.com/medicore/clinic-api/pkg/security"
	"github.com/medicore/clinic-api/pkg/tokenstore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Logger)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	var denylist tokenstore.Denylist
	if cfg.Redis.URL != "" {
		denylist, err = tokenstore.NewRedisDenylist(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("no redis configured, keeping revoked tokens in memory")
		denylist = tokenstore.NewMemoryDenylist()
	}
	defer denylist.Close()

	// Repositories
	accountRepo := postgres.NewAccountRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	labRepo := postgres.NewLabResultRepository(db)
	noteRepo := postgres.NewMedicalNoteRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	allocator := sequence.NewAllocator(postgres.NewSequenceRepository(db))
	hasher := security.NewBcryptHasher(security.DefaultCost)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authorizer := authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctorRepo, Patients: patientRepo})

	// Services
	authSvc := authService.NewService(accountRepo, hasher, jwtSvc, denylist)
	userSvc := userService.NewService(accountRepo, doctorRepo, patientRepo, staffRepo, allocator, hasher, authorizer)
	patientSvc := patientService.NewService(accountRepo, patientRepo, doctorRepo, appointmentRepo, allocator, hasher, authorizer)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, allocator, authorizer)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, patientRepo, doctorRepo, allocator, authorizer)
	labSvc := labService.NewService(labRepo, patientRepo, allocator, authorizer)
	noteSvc := noteService.NewService(noteRepo, patientRepo, allocator, authorizer)
	invoiceSvc := invoiceService.NewService(invoiceRepo, patientRepo, allocator, authorizer)
	reportSvc := reportService.NewService(reportRepo, authorizer)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, denylist, accountRepo)

	r := router.NewRouter(cfg, authMiddleware, metrics.New("clinic_api"),
		authHandler.NewHandler(authSvc, userSvc),
		health.NewHandler(db),
		userHandler.NewHandler(userSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
		labHandler.NewHandler(labSvc),
		noteHandler.NewHandler(noteSvc),
		invoiceHandler.NewHandler(invoiceSvc),
		reportHandler.NewHandler(reportSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
