package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/stitchstyle/internal/db"
	"github.com/nikolayk812/stitchstyle/internal/migrations"
	"github.com/nikolayk812/stitchstyle/internal/port"
	"github.com/nikolayk812/stitchstyle/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type slotRepositorySuite struct {
	suite.Suite

	start func(ctx context.Context) (port.SlotRepository, func(), error)

	repo     port.SlotRepository
	pool     *pgxpool.Pool // postgres only
	teardown func()
}

// entry points to run the same suite against every backend
func TestMemorySlotRepositorySuite(t *testing.T) {
	suite.Run(t, &slotRepositorySuite{
		start: func(context.Context) (port.SlotRepository, func(), error) {
			return repository.NewMemorySlots(), func() {}, nil
		},
	})
}

func TestPostgresSlotRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	s := &slotRepositorySuite{}
	s.start = func(ctx context.Context) (port.SlotRepository, func(), error) {
		container, connStr, err := startPostgres(ctx)
		if err != nil {
			return nil, nil, err
		}

		s.pool, err = pgxpool.New(ctx, connStr)
		if err != nil {
			return nil, nil, err
		}

		// schema already exists from the init script; Up must tolerate that
		if err := migrations.Up(ctx, s.pool); err != nil {
			return nil, nil, err
		}

		return repository.NewSlots(s.pool), func() {
			s.pool.Close()
			_ = testcontainers.TerminateContainer(container)
		}, nil
	}

	suite.Run(t, s)
}

func TestRedisSlotRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	suite.Run(t, &slotRepositorySuite{
		start: func(ctx context.Context) (port.SlotRepository, func(), error) {
			container, addr, err := startRedis(ctx)
			if err != nil {
				return nil, nil, err
			}

			client := redis.NewClient(&redis.Options{Addr: addr})

			return repository.NewRedisSlots(client, "stitchstyle:"), func() {
				_ = client.Close()
				_ = testcontainers.TerminateContainer(container)
			}, nil
		},
	})
}

// before all tests in the suite
func (suite *slotRepositorySuite) SetupSuite() {
	var err error

	suite.repo, suite.teardown, err = suite.start(suite.T().Context())
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *slotRepositorySuite) TearDownSuite() {
	if suite.teardown != nil {
		suite.teardown()
	}
}

func (suite *slotRepositorySuite) TestSet() {
	tests := []struct {
		name      string
		key       string
		values    []string
		wantValue string
		wantError string
	}{
		{
			name:      "set new slot: ok",
			key:       randomKey(),
			values:    []string{`{"id":"1"}`},
			wantValue: `{"id":"1"}`,
		},
		{
			name:      "overwrite slot: last write wins",
			key:       randomKey(),
			values:    []string{`[{"id":"p1"}]`, `[]`},
			wantValue: `[]`,
		},
		{
			name:      "set unparsable text: stored as is",
			key:       randomKey(),
			values:    []string{`{not json`},
			wantValue: `{not json`,
		},
		{
			name:      "set with empty key: error",
			key:       "",
			values:    []string{"{}"},
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			var err error
			for _, value := range tt.values {
				err = suite.repo.Set(ctx, tt.key, value)
				if err != nil {
					break
				}
			}
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			value, found, err := suite.repo.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func (suite *slotRepositorySuite) TestGet() {
	tests := []struct {
		name      string
		key       string
		wantFound bool
		wantError string
	}{
		{
			name:      "get absent slot: not found",
			key:       randomKey(),
			wantFound: false,
		},
		{
			name:      "get with empty key: error",
			key:       "",
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			value, found, err := suite.repo.Get(t.Context(), tt.key)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Empty(t, value)
		})
	}
}

func (suite *slotRepositorySuite) TestDelete() {
	tests := []struct {
		name      string
		key       string
		setup     bool
		wantError string
	}{
		{
			name:  "delete existing slot: ok",
			key:   randomKey(),
			setup: true,
		},
		{
			name:  "delete absent slot: ok",
			key:   randomKey(),
			setup: false,
		},
		{
			name:      "delete with empty key: error",
			key:       "",
			wantError: "key is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			if tt.setup {
				require.NoError(t, suite.repo.Set(ctx, tt.key, `{}`))
			}

			err := suite.repo.Delete(ctx, tt.key)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			_, found, err := suite.repo.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func (suite *slotRepositorySuite) TestSetWithTx() {
	if suite.pool == nil {
		suite.T().Skip("postgres only")
	}

	tests := []struct {
		name      string
		commit    bool
		wantFound bool
	}{
		{
			name:      "committed tx: visible",
			commit:    true,
			wantFound: true,
		},
		{
			name:      "rolled back tx: not visible",
			commit:    false,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			key := randomKey()

			tx, err := suite.pool.Begin(ctx)
			require.NoError(t, err)

			err = repository.NewSlotsWithTx(tx).Set(ctx, key, `{"in":"tx"}`)
			require.NoError(t, err)

			if tt.commit {
				require.NoError(t, tx.Commit(ctx))
			} else {
				require.NoError(t, tx.Rollback(ctx))
			}

			_, found, err := suite.repo.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func (suite *slotRepositorySuite) TestWithTxRollback() {
	if suite.pool == nil {
		suite.T().Skip("postgres only")
	}

	errWrite := errors.New("write rejected")

	tests := []struct {
		name          string
		cancelInFn    bool
		wantRollback  bool
		wantErrorText string
	}{
		{
			name:          "fn fails: write rolled back",
			wantErrorText: "write rejected",
		},
		{
			name:          "fn fails and rollback fails: errors joined",
			cancelInFn:    true,
			wantRollback:  true,
			wantErrorText: "tx.Rollback",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			key := randomKey()

			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			err := repository.WithTx(ctx, suite.pool, func(q *db.Queries) error {
				if err := q.UpsertSlot(ctx, db.UpsertSlotParams{Key: key, Value: `{}`}); err != nil {
					return err
				}
				if tt.cancelInFn {
					cancel()
				}
				return errWrite
			})
			require.ErrorIs(t, err, errWrite)
			assert.ErrorContains(t, err, tt.wantErrorText)
			if tt.wantRollback {
				assert.ErrorIs(t, err, context.Canceled)
			}

			_, found, err := suite.repo.Get(t.Context(), key)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func randomKey() string {
	return "slot-" + gofakeit.UUID()
}
