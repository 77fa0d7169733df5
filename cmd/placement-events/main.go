// Command placement-events follows the submission event topic and logs
// each recorded submission.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/SAP-F-2025/placement-test-service/internal/events"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Production: cfg.IsProduction(),
		File:       cfg.LogFile,
	})
	defer logger.Close()

	subscriber, err := cfg.Events.CreateEventSubscriber(logger.Slog())
	if err != nil {
		return err
	}
	defer subscriber.Close()

	consumer := events.NewConsumer(subscriber, cfg.Events.Topic, logger.Slog())
	return consumer.Run(ctx, func(ctx context.Context, event *events.SubmissionEvent, data events.SubmissionRecorded) error {
		logger.InfoContext(ctx, "Submission recorded",
			"event_id", event.ID,
			"first_name", data.FirstName,
			"last_name", data.LastName,
			"score", data.Score,
			"total_questions", data.TotalQuestions,
			"submitted_at", data.SubmittedAt)
		return nil
	})
}
