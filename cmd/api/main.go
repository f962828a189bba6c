package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/auth"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/clinicday"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/config"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
	httpapi "github.com/AdiyaTakhell/Clinic-Management-System/internal/http"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/invoice"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/logging"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/messaging"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/patient"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/prescription"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/telemetry"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("clinic-service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Telemetry must be up before the first meter is created.
	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig(), logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		return err
	}

	conn, err := db.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, conn, logger); err != nil {
			return err
		}
	}

	perms, err := auth.LoadPermissions(cfg.App.PermissionsFile)
	if err != nil {
		return err
	}

	var publisher messaging.PublisherInterface = messaging.NopPublisher{}
	if cfg.Messaging.RabbitMQURL != "" {
		p, err := messaging.NewPublisher(cfg.Messaging.RabbitMQURL, logger)
		if err != nil {
			// Not fatal: bookings still work, downstream consumers just miss events.
			logger.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	calendar, err := clinicday.NewCalendar(cfg.Clinic.Timezone)
	if err != nil {
		return err
	}

	verifier := auth.NewVerifier(auth.ConfigFrom(cfg.JWT))

	userRepo := users.NewRepository(conn)
	patientRepo := patient.NewRepository(conn)

	userService := users.NewService(userRepo, verifier, logger)
	patientService := patient.NewService(patientRepo, publisher, metrics, logger)
	appointmentService := appointment.NewService(
		appointment.NewRepository(conn),
		userRepo,
		patientRepo,
		calendar,
		appointment.StateMachine{AllowOverride: cfg.Clinic.AllowStatusOverride},
		publisher,
		metrics,
		logger,
	)
	prescriptionService := prescription.NewService(prescription.NewRepository(conn), appointmentService, publisher, metrics, logger)
	invoiceService := invoice.NewService(
		invoice.NewRepository(conn),
		appointmentService,
		invoice.Options{RequireCompleted: cfg.Clinic.BillingRequireCompleted},
		publisher,
		metrics,
		logger,
	)

	router := httpapi.SetupRouter(httpapi.Deps{
		Users:         users.NewHandler(userService, logger),
		Patients:      patient.NewHandler(patientService, logger),
		Appointments:  appointment.NewHandler(appointmentService, logger),
		Prescriptions: prescription.NewHandler(prescriptionService, logger),
		Invoices:      invoice.NewHandler(invoiceService, logger),
		Verifier:      verifier,
		Permissions:   perms,
		Metrics:       metrics,
		Log:           logger,
		Ping:          conn.PingContext,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      httpapi.CORSMiddleware(cfg.CORS.AllowedOrigins)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("clinic-service starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("timezone", cfg.Clinic.Timezone),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
