package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-clubhouse/internal/attendance"
	"go-clubhouse/internal/auditlog"
	"go-clubhouse/internal/messaging/kafka"
	"go-clubhouse/internal/messaging/kafka/producer"
	"go-clubhouse/internal/retention"
	"go-clubhouse/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker runs the background side of the system: the outbox
// producer and the retention purge loop. Both are off the request
// path and safe to run next to live API traffic.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	auditRepo := auditlog.NewRepository(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	purger := retention.NewWorker(
		attendanceRepo,
		auditRepo,
		retention.Config{
			SessionMaxAge: retentionDays("ATTENDANCE_RETENTION_DAYS", 90),
			AuditMaxAge:   retentionDays("AUDIT_RETENTION_DAYS", 180),
			Interval:      time.Hour,
		},
	)
	go purger.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func retentionDays(envKey string, fallback int) time.Duration {
	days := fallback
	if v := os.Getenv(envKey); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return time.Duration(days) * 24 * time.Hour
}
