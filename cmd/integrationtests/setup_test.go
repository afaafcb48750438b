package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	bidding "crowd-bidding/internal/biddingService"
	"crowd-bidding/internal/payments"
	"crowd-bidding/internal/repository"
	"crowd-bidding/internal/server"
	"crowd-bidding/utils"

	"github.com/gin-gonic/gin"
)

const operatorSecret = "integration-secret"

// testClock is a settable clock shared by the service under test
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestEnv is a router over the in-memory repository with a controllable clock
type TestEnv struct {
	Router *gin.Engine
	Repo   *repository.MemoryRepo
	Clock  *testClock
}

// SetupTestRouter initializes the router with in-memory repository for integration testing.
func SetupTestRouter() *TestEnv {
	gin.SetMode(gin.TestMode)
	env := &TestEnv{
		Repo:  repository.NewMemoryRepo(),
		Clock: &testClock{now: time.Now().UTC()},
	}
	service := bidding.NewBiddingService(env.Repo, payments.NewStaticProvider(payments.DefaultSettings()),
		bidding.WithClock(env.Clock.Now),
	)
	env.Router = server.SetupRouter(service, server.Options{JWTSecret: operatorSecret})
	return env
}

// OperatorToken signs a token for an operator of organizationID
func OperatorToken(t *testing.T, organizationID string) string {
	t.Helper()
	token, err := utils.NewOperatorToken(operatorSecret, "dj-"+organizationID, organizationID, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign operator token: %v", err)
	}
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data returns the envelope's data object
func Data(resp map[string]any) map[string]any {
	data, _ := resp["data"].(map[string]any)
	return data
}
