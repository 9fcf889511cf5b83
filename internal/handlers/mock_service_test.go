package handlers

import (
	"context"
	"net/http"
	"sync"

	"user_auth/internal/models"
	"user_auth/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockCredentials struct {
	registerID  int
	registerErr error
	verifyID    int
	verifyErr   error
	user        models.User
	lookupErr   error

	lastRegisterUsername string
	lastRegisterPassword string
	lastVerifyUsername   string
	lastVerifyPassword   string
	lastLookupID         int
}

func (m *mockCredentials) Register(ctx context.Context, username, password string) (int, error) {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerID, m.registerErr
}
func (m *mockCredentials) Verify(ctx context.Context, username, password string) (int, error) {
	m.lastVerifyUsername = username
	m.lastVerifyPassword = password
	return m.verifyID, m.verifyErr
}
func (m *mockCredentials) Lookup(ctx context.Context, userID int) (models.User, error) {
	m.lastLookupID = userID
	return m.user, m.lookupErr
}

type mockTokens struct {
	issueToken string
	issueErr   error
	verifyID   int
	verifyErr  error

	lastIssueID     int
	lastVerifyToken string
}

func (m *mockTokens) Issue(userID int) (string, error) {
	m.lastIssueID = userID
	return m.issueToken, m.issueErr
}
func (m *mockTokens) Verify(token string) (int, error) {
	m.lastVerifyToken = token
	return m.verifyID, m.verifyErr
}

type mockAudit struct {
	mu       sync.Mutex
	recorded []models.AuthEvent

	resp       []models.AuthEvent
	err        error
	lastFilter service.EventFilter
	listCalls  int
}

func (m *mockAudit) Record(ctx context.Context, e models.AuthEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, e)
}
func (m *mockAudit) List(ctx context.Context, f service.EventFilter) ([]models.AuthEvent, error) {
	m.listCalls++
	m.lastFilter = f
	return m.resp, m.err
}

func (m *mockAudit) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.recorded))
	for _, e := range m.recorded {
		out = append(out, e.Type)
	}
	return out
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
