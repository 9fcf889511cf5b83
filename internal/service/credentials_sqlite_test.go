package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"user_auth/internal/apperrors"
	"user_auth/internal/repository"
	"user_auth/internal/repository/db"
	"user_auth/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStoreSuite exercises the credential store against a real SQLite file.
type CredentialStoreSuite struct {
	suite.Suite
	store *service.CredentialStore
	count func(username string) int
}

func (s *CredentialStoreSuite) SetupTest() {
	conn, err := db.InitDB(filepath.Join(s.T().TempDir(), "users.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })

	repos := repository.NewRepository(conn)
	s.store, err = service.NewCredentialStore(repos.Auth, bcrypt.MinCost)
	s.Require().NoError(err)
	s.count = func(username string) int {
		var n int
		s.Require().NoError(conn.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&n))
		return n
	}
}

func (s *CredentialStoreSuite) TestRegisterTwiceKeepsOneUser() {
	ctx := context.Background()

	id, err := s.store.Register(ctx, "alice", "s3cret")
	s.Require().NoError(err)

	_, err = s.store.Register(ctx, "alice", "another")
	s.Require().ErrorIs(err, apperrors.ErrDuplicateUsername)

	s.Equal(1, s.count("alice"))

	// The first password still works; the rejected one was never stored.
	got, err := s.store.Verify(ctx, "alice", "s3cret")
	s.Require().NoError(err)
	s.Equal(id, got)

	_, err = s.store.Verify(ctx, "alice", "another")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *CredentialStoreSuite) TestVerifyReturnsRegisteredID() {
	ctx := context.Background()
	pairs := map[string]string{"u1": "p1", "u2": "p2", "u3": "p3"}
	ids := map[string]int{}

	for u, p := range pairs {
		id, err := s.store.Register(ctx, u, p)
		s.Require().NoError(err)
		ids[u] = id
	}
	for u, p := range pairs {
		got, err := s.store.Verify(ctx, u, p)
		s.Require().NoError(err)
		s.Equal(ids[u], got, "user %s", u)
	}

	_, err := s.store.Verify(ctx, "unknown", "p1")
	s.ErrorIs(err, apperrors.ErrUserNotFound)

	user, err := s.store.Lookup(ctx, ids["u2"])
	s.Require().NoError(err)
	s.Equal("u2", user.Username)
}

func (s *CredentialStoreSuite) TestConcurrentRegistrationSingleWinner() {
	const attempts = 8
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		mu        sync.Mutex
		successes int
		dupes     int
		others    []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.store.Register(ctx, "bob", "pw")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrDuplicateUsername):
				dupes++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Empty(others)
	s.Equal(1, successes)
	s.Equal(attempts-1, dupes)
	s.Equal(1, s.count("bob"))
}

func TestCredentialStoreSuite(t *testing.T) {
	suite.Run(t, new(CredentialStoreSuite))
}

func TestNewService_WiresComponents(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	cfg := testConfig()
	svc, err := service.NewService(repository.NewRepository(conn), cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	id, err := svc.Credentials.Register(ctx, "carol", "pw")
	require.NoError(t, err)

	token, err := svc.Tokens.Issue(id)
	require.NoError(t, err)

	uid, err := svc.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, uid)

	assert.NotNil(t, svc.Audit)
	assert.NotNil(t, svc.Retention)
}
