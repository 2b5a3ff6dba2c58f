package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	authUseCase "github.com/capitaldesk/desk/internal/auth/usecase"
)

// RunCleanExpiredSessions deletes sessions that expired more than days ago.
func RunCleanExpiredSessions(
	ctx context.Context,
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("cleaning expired sessions", slog.Int("days", days))

	count, err := sessionUseCase.CleanExpired(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to clean expired sessions: %w", err)
	}

	if format == FormatJSON {
		writeJSON(writer, map[string]any{"count": count, "days": days})
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired session(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed", slog.Int64("count", count), slog.Int("days", days))
	return nil
}
