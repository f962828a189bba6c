// Command dayclose cancels appointments still Pending or In-Progress from
// earlier clinic days. Run it once after the clinic closes, e.g. from cron.
// -before YYYY-MM-DD closes only days earlier than the given date.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/AdiyaTakhell/Clinic-Management-System/internal/appointment"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/clinicday"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/config"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/db"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/logging"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/messaging"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/patient"
	"github.com/AdiyaTakhell/Clinic-Management-System/internal/users"
)

func main() {
	before := flag.String("before", "", "close days earlier than this date (YYYY-MM-DD); defaults to today")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.Named("dayclose")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	conn, err := db.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	calendar, err := clinicday.NewCalendar(cfg.Clinic.Timezone)
	if err != nil {
		logger.Fatal("invalid clinic timezone", zap.Error(err))
	}

	var publisher messaging.PublisherInterface = messaging.NopPublisher{}
	if cfg.Messaging.RabbitMQURL != "" {
		p, err := messaging.NewPublisher(cfg.Messaging.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, status events will not be published", zap.Error(err))
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	service := appointment.NewService(
		appointment.NewRepository(conn),
		users.NewRepository(conn),
		patient.NewRepository(conn),
		calendar,
		appointment.StateMachine{AllowOverride: cfg.Clinic.AllowStatusOverride},
		publisher,
		nil,
		logger,
	)

	cutoff := calendar.Today()
	if *before != "" {
		cutoff, err = calendar.Parse(*before)
		if err != nil {
			logger.Fatal("invalid -before date", zap.Error(err))
		}
	}

	logger.Info("day close starting", zap.String("today", calendar.Today().String()), zap.String("before", cutoff.String()))

	closed, err := service.CloseBefore(ctx, cutoff)
	if err != nil {
		logger.Fatal("day close failed", zap.Int("closed", closed), zap.Error(err))
	}

	logger.Info("day close finished", zap.Int("closed", closed))
}
