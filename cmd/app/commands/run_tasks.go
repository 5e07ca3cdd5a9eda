package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tasksUseCase "github.com/allisson/booking/internal/tasks/usecase"
)

// RunTasks processes one batch of due tasks and reports the outcome.
// Intended for cron-style schedulers that invoke the binary instead of the
// HTTP trigger endpoint.
func RunTasks(
	ctx context.Context,
	taskUseCase tasksUseCase.TaskUseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("running due tasks")

	result, err := taskUseCase.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to run tasks: %w", err)
	}

	fmt.Fprintf(writer, "Processed %d of %d task(s)\n", result.Processed, result.Total)

	logger.Info("task run completed",
		slog.Int("processed", result.Processed),
		slog.Int("total", result.Total),
	)

	return nil
}
