package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/plenarlab/bt-agenda/app/agenda"
)

// RefreshAgendaTask runs the fetch/parse/reconcile cycle for one week
// partition. The scheduler enqueues it for the current week every
// refresh interval; an upstream failure is logged and skipped.
type RefreshAgendaTask struct {
	Task
	Year       int
	WeekNumber int
	planner    *agenda.Planner
}

func NewRefreshAgendaTask(year, weekNumber int, planner *agenda.Planner) *RefreshAgendaTask {
	return &RefreshAgendaTask{
		Task:       NewTask(TaskTypeRefreshAgenda),
		Year:       year,
		WeekNumber: weekNumber,
		planner:    planner,
	}
}

func (t *RefreshAgendaTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	changed, items, err := t.planner.RefreshWeek(ctx, t.Year, t.WeekNumber)
	if err != nil {
		var upstreamErr *agenda.UpstreamError
		if errors.As(err, &upstreamErr) {
			slog.Warn("Upstream unavailable, skipping refresh",
				"year", t.Year, "week", t.WeekNumber, "status", upstreamErr.StatusCode)
			return nil
		}
		return fmt.Errorf("failed to refresh week %d-%d: %w", t.Year, t.WeekNumber, err)
	}

	slog.Info("Task completed",
		"type", "RefreshAgenda",
		"year", t.Year,
		"week", t.WeekNumber,
		"duration", t.GetDuration(),
		"items", len(items),
		"changed", changed)

	return nil
}
