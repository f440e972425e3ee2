package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/course2career/internal/ai"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/auth"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/cache"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/config"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/services"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/store"
	"github.com/ahmetcoskunkizilkaya/course2career/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

const courseJSON = `{"title":"Cloud Fundamentals","description":"Learn the cloud.","duration":"6 weeks","difficulty":"Beginner","startingSalary":"$60,000 - $75,000","skills":["Networking","Linux","IAM","Storage","Monitoring"],"modules":[{"title":"Intro","description":"Basics"},{"title":"Compute","description":"VMs"},{"title":"Storage","description":"Buckets"},{"title":"Security","description":"IAM"}]}`

type fakeProvider struct {
	reply string
	err   error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Complete(ctx context.Context, r ai.Request) (string, error) {
	return p.reply, p.err
}

type testServer struct {
	app      *fiber.App
	provider *fakeProvider
	tokens   *auth.TokenService
	store    *store.Store
}

func newTestServer(t *testing.T, limits Limits) *testServer {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, AdminEmails: "admin@example.com"}
	db := testutil.DB(t)
	st := store.New(db)
	tokens := auth.NewTokenService(testSecret, time.Hour)
	google := auth.NewGoogleVerifierWithURL("", "http://127.0.0.1:1", http.DefaultClient)
	provider := &fakeProvider{reply: courseJSON}
	noCache := cache.New(nil, "")

	userService := services.NewUserService(st, cfg)
	generation := services.NewGenerationService(ai.NewGateway(provider, time.Second), noCache, time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, tokens, userService, Handlers{
		Auth:         handlers.NewAuthHandler(services.NewAuthService(st, tokens, google, cfg)),
		Profile:      handlers.NewProfileHandler(userService),
		Generation:   handlers.NewGenerationHandler(generation),
		SavedCourses: handlers.NewSavedCourseHandler(services.NewSavedCourseService(st)),
		Admin:        handlers.NewAdminHandler(userService),
		Health:       handlers.NewHealthHandler(db, noCache),
	}, limits)

	return &testServer{app: app, provider: provider, tokens: tokens, store: st}
}

var unlimited = Limits{API: 10000, Auth: 10000, AI: 10000}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	var obj map[string]interface{}
	_ = json.Unmarshal(raw, &obj)
	return resp.StatusCode, obj, raw
}

func (s *testServer) signupAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()
	status, body, raw := s.do(t, "POST", "/api/signup", "", map[string]string{
		"fullName": "Test User", "email": email, "password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup %s = %d %s", email, status, raw)
	}
	userID, _ := body["userId"].(string)

	status, body, raw = s.do(t, "POST", "/api/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s = %d %s", email, status, raw)
	}
	token, _ := body["token"].(string)
	return userID, token
}

// adminLogin signs up an email account, grants it the admin role in the
// store, and logs in again so the token carries the new role.
func (s *testServer) adminLogin(t *testing.T, email string) (string, string) {
	t.Helper()
	userID, _ := s.signupAndLogin(t, email)
	ctx := context.Background()
	u, err := s.store.FindUserByID(ctx, uuid.MustParse(userID))
	if err != nil {
		t.Fatalf("FindUserByID: %v", err)
	}
	u.Role = "admin"
	if err := s.store.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	_, body, _ := s.do(t, "POST", "/api/login", "", map[string]string{"email": email, "password": "password123"})
	token, _ := body["token"].(string)
	return userID, token
}

func TestSignupLogin(t *testing.T) {
	s := newTestServer(t, unlimited)
	userID, token := s.signupAndLogin(t, "ada@example.com")
	if _, err := uuid.Parse(userID); err != nil {
		t.Fatalf("signup returned id %q", userID)
	}
	if token == "" {
		t.Fatal("login returned no token")
	}

	status, body, _ := s.do(t, "POST", "/api/signup", "", map[string]string{
		"fullName": "Again", "email": "ada@example.com", "password": "password123",
	})
	if status != http.StatusConflict || body["error"] == nil {
		t.Errorf("duplicate signup = %d %v", status, body)
	}

	status, body, _ = s.do(t, "POST", "/api/signup", "", map[string]string{
		"fullName": "Bad", "email": "not-an-email", "password": "password123",
	})
	if status != http.StatusBadRequest || !strings.Contains(fmt.Sprint(body["error"]), "email") {
		t.Errorf("invalid signup = %d %v", status, body)
	}

	if status, _, _ := s.do(t, "POST", "/api/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-password"}); status != http.StatusUnauthorized {
		t.Errorf("wrong password = %d", status)
	}
	if status, _, _ := s.do(t, "POST", "/api/login", "", map[string]string{"email": "ghost@example.com", "password": "password123"}); status != http.StatusNotFound {
		t.Errorf("unknown user = %d", status)
	}
}

func TestAuthGate(t *testing.T) {
	s := newTestServer(t, unlimited)
	userID, token := s.signupAndLogin(t, "gate@example.com")

	if status, body, _ := s.do(t, "GET", "/api/profile", "", nil); status != http.StatusUnauthorized || body["error"] == nil {
		t.Errorf("no token = %d %v", status, body)
	}
	if status, _, _ := s.do(t, "GET", "/api/profile", "garbage", nil); status != http.StatusForbidden {
		t.Errorf("garbage token = %d", status)
	}

	expired := auth.NewTokenService(testSecret, -time.Minute)
	old, _, err := expired.Issue(uuid.MustParse(userID), "gate@example.com", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if status, _, _ := s.do(t, "GET", "/api/profile", old, nil); status != http.StatusForbidden {
		t.Errorf("expired token = %d", status)
	}

	forged, _, _ := auth.NewTokenService("other-secret", time.Hour).Issue(uuid.MustParse(userID), "gate@example.com", "admin")
	if status, _, _ := s.do(t, "GET", "/api/profile", forged, nil); status != http.StatusForbidden {
		t.Errorf("forged token = %d", status)
	}

	status, body, raw := s.do(t, "GET", "/api/profile", token, nil)
	if status != http.StatusOK {
		t.Fatalf("profile = %d %s", status, raw)
	}
	if body["id"] != userID || body["full_name"] != "Test User" || body["role"] != "user" {
		t.Errorf("unexpected profile %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Error("profile exposes the password hash")
	}
}

func TestProfileUpdateAndDelete(t *testing.T) {
	s := newTestServer(t, unlimited)
	_, token := s.signupAndLogin(t, "me@example.com")
	s.signupAndLogin(t, "taken@example.com")

	status, body, raw := s.do(t, "PUT", "/api/profile", token, map[string]string{"fullName": "New Name", "email": "me2@example.com"})
	if status != http.StatusOK || body["full_name"] != "New Name" || body["email"] != "me2@example.com" {
		t.Fatalf("update = %d %s", status, raw)
	}
	if status, _, _ := s.do(t, "PUT", "/api/profile", token, map[string]string{"fullName": "x", "email": "taken@example.com"}); status != http.StatusConflict {
		t.Errorf("update to taken email = %d", status)
	}

	if status, _, _ := s.do(t, "DELETE", "/api/profile", token, map[string]string{}); status != http.StatusBadRequest {
		t.Errorf("delete without password = %d", status)
	}
	if status, _, _ := s.do(t, "DELETE", "/api/profile", token, map[string]string{"password": "password123"}); status != http.StatusOK {
		t.Errorf("delete = %d", status)
	}
	if status, _, _ := s.do(t, "GET", "/api/profile", token, nil); status != http.StatusNotFound {
		t.Errorf("profile after delete = %d", status)
	}
}

func TestGenerateEndpoints(t *testing.T) {
	s := newTestServer(t, unlimited)

	status, body, raw := s.do(t, "POST", "/api/generate-course-with-ai", "", map[string]string{"query": "cloud"})
	if status != http.StatusOK {
		t.Fatalf("generate = %d %s", status, raw)
	}
	if modules, _ := body["modules"].([]interface{}); len(modules) != 4 {
		t.Errorf("modules = %v", body["modules"])
	}

	status, body, _ = s.do(t, "POST", "/api/generate-course-with-ai", "", map[string]string{"query": "  "})
	if status != http.StatusBadRequest || body["error"] != "Query is required" {
		t.Errorf("empty query = %d %v", status, body)
	}

	s.provider.reply = "I cannot help with that."
	status, body, _ = s.do(t, "POST", "/api/generate-career-path", "", map[string]string{"query": "law"})
	if status != http.StatusInternalServerError || body["error"] == nil {
		t.Errorf("malformed = %d %v", status, body)
	}

	s.provider.err = &ai.UpstreamHTTPError{Provider: "fake", StatusCode: 401, Body: "bad api key sk-123"}
	status, _, raw = s.do(t, "POST", "/api/generate-course-with-ai", "", map[string]string{"query": "cloud"})
	if status != http.StatusInternalServerError || strings.Contains(string(raw), "sk-123") {
		t.Errorf("upstream error = %d %s", status, raw)
	}

	s.provider.err = nil
	s.provider.reply = "Start with the basics."
	status, body, _ = s.do(t, "POST", "/api/chat", "", map[string]interface{}{
		"query":   "where to start?",
		"history": []map[string]string{{"role": "user", "content": "hi"}, {"role": "model", "content": "hello"}},
	})
	if status != http.StatusOK || body["reply"] != "Start with the basics." {
		t.Errorf("chat = %d %v", status, body)
	}
}

func TestSavedCourses(t *testing.T) {
	s := newTestServer(t, unlimited)
	_, token := s.signupAndLogin(t, "saver@example.com")
	_, other := s.signupAndLogin(t, "other@example.com")

	status, body, raw := s.do(t, "POST", "/api/saved-courses", token, map[string]json.RawMessage{"courseData": json.RawMessage(courseJSON)})
	if status != http.StatusCreated {
		t.Fatalf("save = %d %s", status, raw)
	}
	courseID, _ := body["id"].(string)
	if body["course_title"] != "Cloud Fundamentals" {
		t.Errorf("course_title = %v", body["course_title"])
	}

	status, body, _ = s.do(t, "POST", "/api/saved-courses", token, map[string]interface{}{"courseData": map[string]string{"title": "Half a course"}})
	if status != http.StatusBadRequest || body["error"] == nil {
		t.Errorf("invalid course = %d %v", status, body)
	}

	status, _, raw = s.do(t, "GET", "/api/saved-courses", token, nil)
	var list []map[string]interface{}
	if err := json.Unmarshal(raw, &list); err != nil || status != http.StatusOK || len(list) != 1 {
		t.Fatalf("list = %d %s", status, raw)
	}
	data, _ := list[0]["course_data"].(string)
	if !strings.Contains(data, `"Cloud Fundamentals"`) {
		t.Errorf("course_data should be a JSON string, got %v", list[0]["course_data"])
	}

	if status, _, _ := s.do(t, "DELETE", "/api/saved-courses/not-a-uuid", token, nil); status != http.StatusBadRequest {
		t.Errorf("bad id = %d", status)
	}
	if status, _, _ := s.do(t, "DELETE", "/api/saved-courses/"+courseID, other, nil); status != http.StatusNotFound {
		t.Errorf("delete by other user = %d", status)
	}
	if status, _, _ := s.do(t, "DELETE", "/api/saved-courses/"+courseID, token, nil); status != http.StatusOK {
		t.Errorf("delete = %d", status)
	}
	if status, _, _ := s.do(t, "DELETE", "/api/saved-courses/"+courseID, token, nil); status != http.StatusNotFound {
		t.Errorf("second delete = %d", status)
	}
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, unlimited)
	adminID, adminToken := s.adminLogin(t, "root@example.com")
	userID, userToken := s.signupAndLogin(t, "user@example.com")

	if status, _, _ := s.do(t, "GET", "/api/users", userToken, nil); status != http.StatusForbidden {
		t.Errorf("non-admin list = %d", status)
	}
	if status, _, _ := s.do(t, "GET", "/api/users", "", nil); status != http.StatusUnauthorized {
		t.Errorf("anonymous list = %d", status)
	}

	status, _, raw := s.do(t, "GET", "/api/users", adminToken, nil)
	var users []map[string]interface{}
	if err := json.Unmarshal(raw, &users); err != nil || status != http.StatusOK || len(users) != 2 {
		t.Fatalf("admin list = %d %s", status, raw)
	}

	if status, _, _ := s.do(t, "DELETE", "/api/users/"+adminID, adminToken, nil); status != http.StatusForbidden {
		t.Errorf("admin self delete = %d", status)
	}
	if status, _, _ := s.do(t, "DELETE", "/api/users/"+userID, userToken, nil); status != http.StatusForbidden {
		t.Errorf("user self delete = %d", status)
	}

	if status, _, _ := s.do(t, "POST", "/api/saved-courses", userToken, map[string]json.RawMessage{"courseData": json.RawMessage(courseJSON)}); status != http.StatusCreated {
		t.Fatalf("save = %d", status)
	}

	status, body, _ := s.do(t, "PUT", "/api/users/"+userID+"/role", adminToken, map[string]string{"role": "admin"})
	if status != http.StatusOK || body["role"] != "admin" {
		t.Errorf("promote = %d %v", status, body)
	}
	if status, _, _ := s.do(t, "PUT", "/api/users/"+userID+"/role", adminToken, map[string]string{"role": "root"}); status != http.StatusBadRequest {
		t.Errorf("bad role = %d", status)
	}

	if status, _, _ := s.do(t, "DELETE", "/api/users/"+userID, adminToken, nil); status != http.StatusOK {
		t.Errorf("admin delete = %d", status)
	}
	if status, _, _ := s.do(t, "DELETE", "/api/users/"+userID, adminToken, nil); status != http.StatusNotFound {
		t.Errorf("second admin delete = %d", status)
	}
	status, _, raw = s.do(t, "GET", "/api/saved-courses", userToken, nil)
	if status != http.StatusOK || strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("saved courses of deleted user = %d %s", status, raw)
	}
}

func TestAdminEmailCannotBeClaimed(t *testing.T) {
	s := newTestServer(t, unlimited)

	status, body, _ := s.do(t, "POST", "/api/signup", "", map[string]string{
		"fullName": "Eve", "email": "Admin@example.com", "password": "password123",
	})
	if status != http.StatusForbidden || body["error"] == nil {
		t.Errorf("signup with admin email = %d %v", status, body)
	}

	_, token := s.signupAndLogin(t, "mallory@example.com")
	status, body, _ = s.do(t, "PUT", "/api/profile", token, map[string]string{"fullName": "Mallory", "email": "admin@example.com"})
	if status != http.StatusForbidden || body["error"] == nil {
		t.Errorf("email change to admin email = %d %v", status, body)
	}
	if status, _, _ := s.do(t, "GET", "/api/users", token, nil); status != http.StatusForbidden {
		t.Errorf("admin list after email change attempt = %d, want 403", status)
	}
	status, body, _ = s.do(t, "GET", "/api/profile", token, nil)
	if status != http.StatusOK || body["email"] != "mallory@example.com" || body["role"] != "user" {
		t.Errorf("profile changed: %d %v", status, body)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, unlimited)
	status, body, _ := s.do(t, "GET", "/api/health", "", nil)
	if status != http.StatusOK || body["db"] != "ok" || body["cache"] != "disabled" {
		t.Errorf("health = %d %v", status, body)
	}
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, Limits{API: 100, Auth: 2, AI: 100})
	login := map[string]string{"email": "x@example.com", "password": "password123"}

	for i := 0; i < 2; i++ {
		if status, _, _ := s.do(t, "POST", "/api/login", "", login); status == http.StatusTooManyRequests {
			t.Fatalf("request %d was rate limited", i+1)
		}
	}
	status, body, _ := s.do(t, "POST", "/api/login", "", login)
	if status != http.StatusTooManyRequests || body["error"] == nil {
		t.Errorf("third login = %d %v", status, body)
	}
	if status, _, _ := s.do(t, "GET", "/api/health", "", nil); status != http.StatusOK {
		t.Errorf("health should not share the auth limit, got %d", status)
	}
}
