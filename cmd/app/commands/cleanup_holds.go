package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
)

// RunCleanupHolds cancels the pending appointments of expired holds.
// Expiry is otherwise enforced at query time; this reclaims rows so reporting
// reflects reality.
func RunCleanupHolds(
	ctx context.Context,
	useCase bookingUseCase.BookingUseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("cleaning up expired holds")

	count, err := useCase.CleanupExpiredHolds(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean up expired holds: %w", err)
	}

	fmt.Fprintf(writer, "Cancelled %d appointment(s) with expired holds\n", count)

	logger.Info("cleanup completed", slog.Int64("count", count))

	return nil
}
