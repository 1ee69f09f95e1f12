package repository_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/glizzus/timed-requests/internal/datalayer"
	"github.com/glizzus/timed-requests/internal/report"
	"github.com/glizzus/timed-requests/internal/repository"
	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/glizzus/timed-requests/internal/verify"
)

func ptr[T any](v T) *T {
	return &v
}

func TestFireToRowParams(t *testing.T) {
	sent := schedule.TimeOfDay{Hour: 9, Minute: 0, Second: 1}
	fire := report.Fire{
		Index:      2,
		Target:     schedule.TimeOfDay{Hour: 9, Minute: 0, Second: 0},
		Sent:       &sent,
		SentAt:     time.Date(2026, 1, 1, 9, 0, 1, 0, time.UTC),
		Drift:      1500 * time.Microsecond,
		StatusCode: 200,
	}
	got := repository.FireToRowParams("run", fire)
	want := []any{"run", 2, "09:00:00", "09:00:01", fire.SentAt, int64(1500), 200, nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected params (-want +got):\n%s", diff)
	}

	failed := report.Fire{Index: 0, Target: fire.Target, Error: "boom"}
	got = repository.FireToRowParams("run", failed)
	want = []any{"run", 0, "09:00:00", nil, nil, nil, nil, "boom"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected params for failed fire (-want +got):\n%s", diff)
	}
}

func TestRepositorySave(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := t.Context()
	postgresContainer, err := postgres.Run(
		ctx,
		"postgres",
		postgres.WithDatabase("timed_requests"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate postgres container: %v", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}
	defer pool.Close()

	if err := datalayer.MigratePostgres(pool); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}

	repo := repository.NewPostgresRunRepository(pool)

	id := "e281f5c0-c05f-423d-9add-c0ffee084f27"
	sent := schedule.TimeOfDay{Hour: 12, Minute: 0, Second: 0}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	run := report.Run{
		ID:         id,
		Source:     "str",
		Endpoint:   "http://example.com",
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Fires: []report.Fire{
			{Index: 0, Target: sent, Sent: &sent, SentAt: now, Drift: 250 * time.Microsecond, StatusCode: 200},
			{Index: 1, Target: schedule.TimeOfDay{Hour: 12, Minute: 0, Second: 5}, Error: "connection refused"},
		},
		Result: verify.Result{Success: false},
	}

	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	t.Run("The run should be saved as a row in the database", func(t *testing.T) {
		var source string
		var success bool
		err := pool.QueryRow(ctx, "SELECT source, success FROM timed_run WHERE id = $1", id).Scan(&source, &success)
		if err != nil {
			t.Fatalf("failed to query run: %v", err)
		}
		if source != "str" || success {
			t.Errorf("run does not match expected values: source=%q success=%v", source, success)
		}
	})

	t.Run("Every fire should be saved in order", func(t *testing.T) {
		fires, err := repo.Fires(ctx, id)
		if err != nil {
			t.Fatalf("failed to query fires: %v", err)
		}
		want := []repository.FireRow{
			{RunID: id, Index: 0, Target: "12:00:00", Sent: ptr("12:00:00"), DriftMicro: ptr(int64(250)), StatusCode: ptr(200)},
			{RunID: id, Index: 1, Target: "12:00:05", Error: ptr("connection refused")},
		}
		if diff := cmp.Diff(want, fires); diff != "" {
			t.Errorf("unexpected fires (-want +got):\n%s", diff)
		}
	})

	t.Run("Saving the same run twice should not fail", func(t *testing.T) {
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("failed to save run again: %v", err)
		}
		fires, err := repo.Fires(ctx, id)
		if err != nil {
			t.Fatalf("failed to query fires: %v", err)
		}
		if len(fires) != 2 {
			t.Errorf("expected 2 fires, got %d", len(fires))
		}
	})
}
