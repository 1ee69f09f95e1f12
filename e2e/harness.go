// Package e2e holds shared fixtures for end-to-end runs against real
// clocks, HTTP servers and containerised sinks.
package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/glizzus/timed-requests/internal/datalayer"
	"github.com/glizzus/timed-requests/internal/dispatch"
	"github.com/glizzus/timed-requests/internal/repository"
	"github.com/glizzus/timed-requests/internal/requester"
	"github.com/glizzus/timed-requests/internal/schedule"
)

// Endpoint is a test HTTP server that remembers when each request arrived.
type Endpoint struct {
	URL string

	mu       sync.Mutex
	arrivals []time.Time
}

func (e *Endpoint) Arrivals() []time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]time.Time(nil), e.arrivals...)
}

// NewEndpoint starts a server answering 200 to every request.
func NewEndpoint(t *testing.T) *Endpoint {
	t.Helper()
	e := &Endpoint{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		e.mu.Lock()
		e.arrivals = append(e.arrivals, time.Now())
		e.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	e.URL = srv.URL
	return e
}

// NewDispatcher wires a real clock and requester against endpoint.
func NewDispatcher(t *testing.T, endpoint string, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	client, err := requester.New(requester.Options{Endpoint: endpoint, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("failed to create requester: %v", err)
	}
	logger := slog.New(slog.DiscardHandler)
	waiter := schedule.NewWaiter(schedule.SystemClock{}, client, logger)
	return dispatch.NewDispatcher(waiter, logger, opts...)
}

var (
	pgOnce            sync.Once
	postgresContainer *postgres.PostgresContainer
	pgConnStr         string
	pgStartErr        error
	pgWG              sync.WaitGroup
)

// UsePostgres provisions or reuses a migrated Postgres container. State is
// shared across tests.
func UsePostgres(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()
		postgresContainer, pgStartErr = postgres.Run(
			ctx,
			"postgres",
			postgres.WithDatabase("timed_requests"),
			postgres.WithUsername("user"),
			postgres.WithPassword("password"),
			postgres.BasicWaitStrategies(),
		)
		if pgStartErr != nil {
			return
		}
		pgConnStr, pgStartErr = postgresContainer.ConnectionString(ctx)
		if pgStartErr != nil {
			return
		}

		var pool *pgxpool.Pool
		pool, pgStartErr = pgxpool.New(ctx, pgConnStr)
		if pgStartErr != nil {
			return
		}
		defer pool.Close()

		pgStartErr = datalayer.MigratePostgres(pool)
	})

	if pgStartErr != nil {
		t.Fatalf("failed to start postgres container: %v", pgStartErr)
	}
	pgWG.Add(1)
	t.Cleanup(pgWG.Done)

	return pgConnStr
}

// GetRepository connects a run repository to connStr without migrating.
func GetRepository(t *testing.T, connStr string) *repository.PostgresRunRepository {
	t.Helper()
	pool, err := pgxpool.New(t.Context(), connStr)
	if err != nil {
		t.Fatalf("failed to create postgres pool: %v", err)
	}

	t.Cleanup(pool.Close)
	return repository.NewPostgresRunRepository(pool)
}

func TerminatePostgresForE2E() {
	pgWG.Wait()
	if postgresContainer != nil {
		err := postgresContainer.Terminate(context.Background())
		if err != nil {
			fmt.Printf("failed to terminate postgres container: %v", err)
		}
	}
}

var (
	redisOnce      sync.Once
	redisContainer *tcredis.RedisContainer
	redisConnStr   string
	redisStartErr  error
	redisWG        sync.WaitGroup
)

// UseRedis provisions or reuses a Redis container and returns a client to it.
func UseRedis(t *testing.T) *redis.Client {
	t.Helper()

	redisOnce.Do(func() {
		ctx := context.Background()
		redisContainer, redisStartErr = tcredis.Run(ctx, "redis:7-alpine")
		if redisStartErr != nil {
			return
		}
		redisConnStr, redisStartErr = redisContainer.ConnectionString(ctx)
	})

	if redisStartErr != nil {
		t.Fatalf("failed to start redis container: %v", redisStartErr)
	}
	redisWG.Add(1)
	t.Cleanup(redisWG.Done)

	opts, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed to parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TerminateRedisForE2E() {
	redisWG.Wait()
	if redisContainer != nil {
		err := redisContainer.Terminate(context.Background())
		if err != nil {
			fmt.Printf("failed to terminate redis container: %v", err)
		}
	}
}
