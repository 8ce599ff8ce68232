package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/honors-hub/adapters/contracttest"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/internal/domain/proposal"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("honors_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

// truncate empties every table so each contract run starts from a blank schema.
func (s *RepoIntegrationTestSuite) truncate(t *testing.T) {
	t.Helper()
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE engagements, profiles, proposals`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %s", err)
	}
}

func (s *RepoIntegrationTestSuite) profileFactory(t *testing.T) (profile.Repository, contracttest.CleanupFunc) {
	s.truncate(t)
	return NewPostgresProfileRepo(s.dbPool, s.testLogger), nil
}

func (s *RepoIntegrationTestSuite) Test_ProfileRepo() {
	contracttest.RunProfileRepo(s.T(), s.profileFactory)
}

func (s *RepoIntegrationTestSuite) Test_ProfileRepo_ConcurrentCreate() {
	contracttest.RunProfileRepoConcurrentCreate(s.T(), s.profileFactory)
}

func (s *RepoIntegrationTestSuite) Test_ProposalRepo() {
	contracttest.RunProposalRepo(s.T(), func(t *testing.T) (proposal.Repository, contracttest.CleanupFunc) {
		s.truncate(t)
		return NewPostgresProposalRepo(s.dbPool, s.testLogger), nil
	})
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}
