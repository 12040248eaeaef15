// Package steps wires the Godog step definitions to a fully assembled API
// server backed by in-memory stores.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/application/usecase/auth"
	"github.com/snowbudget/backend/internal/application/usecase/budget"
	"github.com/snowbudget/backend/internal/infra/server/router"
	"github.com/snowbudget/backend/internal/integration/adapters"
	"github.com/snowbudget/backend/internal/integration/entrypoint/controller"
	"github.com/snowbudget/backend/internal/integration/entrypoint/middleware"
	"github.com/snowbudget/backend/internal/integration/persistence"
	"github.com/snowbudget/backend/internal/integration/persistence/model"
	"github.com/snowbudget/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var (
	serverOnce sync.Once
	testServer *httptest.Server

	testDB          *mock.Db
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService

	specMu       sync.Mutex
	currentSpec  *budget.Spec
	currentStore adapter.ClassStore
)

type testContext struct {
	authCookie  string
	lastClassID string

	status  int
	body    []byte
	headers http.Header
}

// InitializeScenario registers every step against a fresh scenario context.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		return c, test.before()
	})

	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^I am logged in$`, test.iAmLoggedIn)
	ctx.Given(`^a budget class "([^"]*)" with keyword "([^"]*)" exists$`, test.aBudgetClassWithKeywordExists)
	ctx.Given(`^a budget class "([^"]*)" of type "([^"]*)" with keyword "([^"]*)" exists$`, test.aBudgetClassOfTypeWithKeywordExists)
	ctx.Given(`^a transaction of ([0-9.]+) at "([^"]*)" for "([^"]*)" exists in "([^"]*)"$`, test.aTransactionExistsIn)

	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with the stored class id and body:$`, test.iSendARequestToWithStoredClassID)

	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response field "([^"]*)" should be "(.*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^an auth cookie should be set$`, test.anAuthCookieShouldBeSet)
}

// before resets all per-scenario state: the user store, the session store,
// and a brand new budget directory tree.
func (t *testContext) before() error {
	t.authCookie = ""
	t.lastClassID = ""
	t.status = 0
	t.body = nil
	t.headers = nil

	t.startServer()

	if err := testDB.ClearDB(); err != nil {
		return err
	}
	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return err
	}
	if err := resetBudgetTree(); err != nil {
		return err
	}

	seed := auth.NewSeedUserUseCase(userRepo, passwordService)
	_, err := seed.Execute(context.Background(), auth.SeedUserInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "hunter2",
		Privilege: 1,
	})
	return err
}

// resetBudgetTree points the shared ledger factory at a fresh directory tree.
func resetBudgetTree() error {
	root, err := os.MkdirTemp("", "snowbudget-test-*")
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, "budget.json")
	content := fmt.Sprintf(`{
		"name": "household",
		"save_location": %q,
		"backup_location": %q,
		"reset_dates": ["1-1"],
		"surplus_savings": [{"category": "emergency", "percent": 0.5}]
	}`, filepath.Join(root, "save"), filepath.Join(root, "backup"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return err
	}

	spec, err := budget.LoadSpec(configPath)
	if err != nil {
		return err
	}

	specMu.Lock()
	currentSpec = spec
	currentStore = persistence.NewClassStore(spec.SaveLocation, spec.BackupLocation)
	specMu.Unlock()
	return nil
}

// startServer assembles the full application once and serves it over
// httptest for every scenario.
func (t *testContext) startServer() {
	serverOnce.Do(func() {
		gin.SetMode(gin.TestMode)

		testDB = mock.NewDb(&model.UserModel{}, &model.ResetEventModel{})
		redisClient := mock.NewRedis()

		userRepo = persistence.NewUserRepository(testDB.DbConn)
		sessionRepo := persistence.NewSessionRepository(redisClient)
		resetEventRepo := persistence.NewResetEventRepository(testDB.DbConn)

		passwordService = adapters.NewPasswordService()
		tokenService := adapters.NewTokenService(testJWTSecret, time.Hour, sessionRepo)

		loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
		logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

		newLedger := func(at time.Time) (*budget.Ledger, error) {
			specMu.Lock()
			spec, store := currentSpec, currentStore
			specMu.Unlock()
			return budget.NewLedger(spec, store, at)
		}

		healthController := controller.NewHealthController()
		authController := controller.NewAuthController(loginUseCase, logoutUseCase, tokenService, false)
		notifier := controller.NewNotifier(userRepo, nil)
		budgetController := controller.NewBudgetController(newLedger, notifier, nil, nil, resetEventRepo)

		r := router.NewRouter(
			healthController,
			authController,
			budgetController,
			middleware.NewRateLimiter(),
			middleware.NewAuthMiddleware(tokenService),
		)
		testServer = httptest.NewServer(r.Setup("test"))
	})
}

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := http.Get(testServer.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) iAmLoggedIn() error {
	if err := t.send(http.MethodPost, "/auth/login",
		`{"username": "alice", "password": "hunter2"}`); err != nil {
		return err
	}
	for _, cookie := range t.headers.Values("Set-Cookie") {
		if strings.HasPrefix(cookie, middleware.AuthCookieName+"=") {
			t.authCookie = strings.TrimPrefix(strings.Split(cookie, ";")[0], middleware.AuthCookieName+"=")
			return nil
		}
	}
	return fmt.Errorf("login did not set an auth cookie: %s", t.body)
}

func (t *testContext) aBudgetClassWithKeywordExists(name, keyword string) error {
	return t.aBudgetClassOfTypeWithKeywordExists(name, "expense", keyword)
}

func (t *testContext) aBudgetClassOfTypeWithKeywordExists(name, classType, keyword string) error {
	body := fmt.Sprintf(`{"name": %q, "type": %q, "keywords": [%q]}`, name, classType, keyword)
	if err := t.send(http.MethodPost, "/create/class", body); err != nil {
		return err
	}
	parsed, err := t.parsedBody()
	if err != nil {
		return err
	}
	payload, ok := parsed["payload"].(map[string]any)
	if !ok {
		return fmt.Errorf("class creation returned no payload: %s", t.body)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		return fmt.Errorf("class creation returned no id: %s", t.body)
	}
	t.lastClassID = id
	return nil
}

func (t *testContext) aTransactionExistsIn(price, vendor, description, keyword string) error {
	body := fmt.Sprintf(`{"query": %q, "price": %s, "vendor": %q, "description": %q, "timestamp": %d}`,
		keyword, price, vendor, description, time.Now().Unix())
	if err := t.send(http.MethodPost, "/create/transaction/search", body); err != nil {
		return err
	}
	parsed, err := t.parsedBody()
	if err != nil {
		return err
	}
	if success, _ := parsed["success"].(bool); !success {
		return fmt.Errorf("transaction setup failed: %s", t.body)
	}
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.send(method, path, "")
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	return t.send(method, path, body.Content)
}

func (t *testContext) iSendARequestToWithStoredClassID(method, path string, body *godog.DocString) error {
	if t.lastClassID == "" {
		return fmt.Errorf("no class id stored")
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(body.Content), &fields); err != nil {
		return fmt.Errorf("invalid body doc string: %w", err)
	}
	fields["class_id"] = t.lastClassID
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return t.send(method, path, string(merged))
}

func (t *testContext) send(method, path, body string) error {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req, err := http.NewRequest(method, testServer.URL+path, reader)
	if err != nil {
		return err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.authCookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: t.authCookie})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return err
	}

	t.status = resp.StatusCode
	t.body = buf.Bytes()
	t.headers = resp.Header
	return nil
}

func (t *testContext) parsedBody() (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal(t.body, &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", t.body)
	}
	return parsed, nil
}

func (t *testContext) theResponseStatusShouldBe(expected int) error {
	if t.status != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, t.status, t.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expected string) error {
	parsed, err := t.parsedBody()
	if err != nil {
		return err
	}

	var value any = parsed
	for _, key := range strings.Split(field, ".") {
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("field %q is not an object in %s", field, t.body)
		}
		value, ok = obj[key]
		if !ok {
			return fmt.Errorf("field %q not found in %s", field, t.body)
		}
	}

	// Feature files escape double quotes inside quoted step arguments.
	expected = strings.ReplaceAll(expected, `\"`, `"`)

	if got := stringify(value); got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", field, expected, got)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(t.body), expected) {
		return fmt.Errorf("response does not contain %q: %s", expected, t.body)
	}
	return nil
}

func (t *testContext) anAuthCookieShouldBeSet() error {
	for _, cookie := range t.headers.Values("Set-Cookie") {
		if strings.HasPrefix(cookie, middleware.AuthCookieName+"=") {
			return nil
		}
	}
	return fmt.Errorf("no %s cookie in response headers", middleware.AuthCookieName)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
