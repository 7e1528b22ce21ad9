package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/plenarlab/bt-agenda/app/agenda"
	"github.com/plenarlab/bt-agenda/app/store"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _, _ int) ([]byte, error) {
	return f.data, f.err
}

func newTaskPlanner(t *testing.T, fetcher agenda.FetcherInterface) (*agenda.Planner, *agenda.PartitionRepository) {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	repo := agenda.NewPartitionRepository(store.NewMemoryKV())
	planner := agenda.NewPlanner(fetcher, agenda.NewParser(loc), repo, agenda.NewReconciler(repo), nil, loc)

	return planner, repo
}

func TestRefreshAgendaTaskPersistsWeek(t *testing.T) {
	planner, repo := newTaskPlanner(t, &stubFetcher{data: []byte("<html><body></body></html>")})

	task := NewRefreshAgendaTask(2024, 3, planner)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}

	_, ok, err := repo.Load(2024, 3)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !ok {
		t.Error("refresh must materialize the week partition")
	}
}

func TestRefreshAgendaTaskSkipsUpstreamFailure(t *testing.T) {
	planner, repo := newTaskPlanner(t, &stubFetcher{err: &agenda.UpstreamError{StatusCode: 503}})

	task := NewRefreshAgendaTask(2024, 3, planner)
	if err := task.Execute(context.Background()); err != nil {
		t.Errorf("upstream failure must be skipped, got error: %v", err)
	}

	_, ok, err := repo.Load(2024, 3)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if ok {
		t.Error("failed refresh must not write a partition")
	}
}

func TestRefreshAgendaTaskHonorsCancellation(t *testing.T) {
	planner, _ := newTaskPlanner(t, &stubFetcher{data: []byte("<html></html>")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewRefreshAgendaTask(2024, 3, planner)
	if err := task.Execute(ctx); err == nil {
		t.Error("Execute() with a cancelled context must fail")
	}
}

func TestNewTaskAssignsDistinctIDs(t *testing.T) {
	a := NewTask(TaskTypeRefreshAgenda)
	b := NewTask(TaskTypeRefreshAgenda)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("task ids must be distinct and non-empty, got %q and %q", a.ID, b.ID)
	}
	if a.GetType() != TaskTypeRefreshAgenda {
		t.Errorf("task type = %q", a.GetType())
	}
}
