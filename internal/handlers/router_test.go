package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"petshop/config"
	"petshop/internal/app"
	"petshop/internal/controllers"
	customerController "petshop/internal/controllers/customers"
	jobController "petshop/internal/controllers/jobs"
	petController "petshop/internal/controllers/pets"
	workerController "petshop/internal/controllers/workers"
	"petshop/internal/database"
	"petshop/internal/handlers/middleware"
	. "petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/testutil"
	"petshop/internal/types"
	"petshop/internal/websockets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	customerID    = 1
	adminWorkerID = 3
	workerID      = 4
	unknownUserID = 99
)

type stubJobController struct {
	createErr   error
	updateErr   error
	lastActor   Actor
	lastOptions int
}

func (s *stubJobController) CreateJob(ctx context.Context, actor Actor, request jobController.CreateJobRequest) (*Job, error) {
	s.lastActor = actor
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &Job{BaseModel: BaseModel{ID: 100}, Bath: true, PetID: request.Pet, WorkerID: request.Worker}, nil
}

func (s *stubJobController) UpdateJob(ctx context.Context, actor Actor, jobID int, request jobController.UpdateJobRequest) (*Job, error) {
	s.lastActor = actor
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &Job{BaseModel: BaseModel{ID: jobID}, Bath: true}, nil
}

func (s *stubJobController) ListJobs(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[Job], error) {
	s.lastActor = actor
	return types.NewPage([]Job{{BaseModel: BaseModel{ID: 50}}}, 1, page), nil
}

func (s *stubJobController) GetJob(ctx context.Context, actor Actor, jobID int) (*Job, error) {
	if jobID != 50 {
		return nil, types.ErrNotFound
	}
	return &Job{BaseModel: BaseModel{ID: 50}}, nil
}

func (s *stubJobController) Options(ctx context.Context, actor Actor, customerID int, search string) (*jobController.JobFormOptions, error) {
	s.lastOptions = customerID
	return &jobController.JobFormOptions{}, nil
}

type stubPetController struct{}

func (stubPetController) ListPets(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[Pet], error) {
	return types.NewPage([]Pet{}, 0, page), nil
}

func (stubPetController) GetPet(ctx context.Context, actor Actor, id int) (*Pet, error) {
	return nil, fmt.Errorf("%w: pet belongs to another customer", types.ErrPermissionDenied)
}

func (stubPetController) CreatePet(ctx context.Context, actor Actor, request petController.CreatePetRequest) (*Pet, error) {
	return &Pet{BaseModel: BaseModel{ID: 20}, Name: request.Name}, nil
}

type stubCustomerController struct{}

func (stubCustomerController) ListCustomers(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[User], error) {
	return types.NewPage([]User{}, 0, page), nil
}

func (stubCustomerController) GetCustomer(ctx context.Context, actor Actor, id int) (*User, error) {
	return &User{BaseModel: BaseModel{ID: id}, Type: RoleCustomer}, nil
}

func (stubCustomerController) CreateCustomer(ctx context.Context, actor Actor, request customerController.CustomerRequest) (*User, error) {
	return nil, types.Validation("cpf", "CPF is invalid")
}

func (stubCustomerController) UpdateCustomer(ctx context.Context, actor Actor, id int, request customerController.CustomerRequest) (*User, error) {
	return &User{BaseModel: BaseModel{ID: id}, Type: RoleCustomer}, nil
}

type stubWorkerController struct{}

func (stubWorkerController) ListWorkers(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[User], error) {
	return types.NewPage([]User{}, 0, page), nil
}

func (stubWorkerController) CreateWorker(ctx context.Context, actor Actor, request workerController.CreateWorkerRequest) (*User, error) {
	return &User{BaseModel: BaseModel{ID: 30}, Type: RoleWorker}, nil
}

func (stubWorkerController) UpdateWorker(ctx context.Context, actor Actor, id int, request workerController.UpdateWorkerRequest) (*User, error) {
	return &User{BaseModel: BaseModel{ID: id}, Type: RoleWorker}, nil
}

type testServer struct {
	app    *fiber.App
	tokens *services.TokenService
	jobs   *stubJobController
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{ServerPort: 8080, AuthTokenSecret: "test-secret", GeneralVersion: "test"}
	tokens := services.NewTokenService(cfg)

	users := &testutil.MockUserRepository{}
	users.On("GetByID", mock.Anything, mock.Anything, customerID).
		Return(&User{BaseModel: BaseModel{ID: customerID}, Name: "Ana", Type: RoleCustomer}, nil)
	users.On("GetByID", mock.Anything, mock.Anything, adminWorkerID).
		Return(&User{BaseModel: BaseModel{ID: adminWorkerID}, Name: "Carla", Type: RoleWorker, IsAdmin: true}, nil)
	users.On("GetByID", mock.Anything, mock.Anything, workerID).
		Return(&User{BaseModel: BaseModel{ID: workerID}, Name: "Davi", Type: RoleWorker}, nil)
	users.On("GetByID", mock.Anything, mock.Anything, unknownUserID).
		Return(nil, types.ErrNotFound)

	jobs := &stubJobController{}
	application := &app.App{
		Config:     cfg,
		Middleware: middleware.New(database.DB{}, tokens, cfg, repositories.Repository{User: users}),
		Controllers: controllers.Controllers{
			Job:      jobs,
			Pet:      stubPetController{},
			Customer: stubCustomerController{},
			Worker:   stubWorkerController{},
		},
		Websocket: &websockets.Manager{},
	}

	server := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	require.NoError(t, Router(server, application))

	return &testServer{app: server, tokens: tokens, jobs: jobs}
}

func (s *testServer) do(t *testing.T, method, path string, userID int, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if userID != 0 {
		token, err := s.tokens.Issue(userID)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func TestHealth_IsPublic(t *testing.T) {
	server := newTestServer(t)

	status, body := server.do(t, http.MethodGet, "/api/health", 0, "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestEventFeed_RequiresUpgrade(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		userID int
	}{
		{name: "anonymous", userID: 0},
		{name: "signed in", userID: customerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := server.do(t, http.MethodGet, "/ws", tt.userID, "")

			assert.Equal(t, http.StatusUpgradeRequired, status)
			assert.Equal(t, "error", body["status"])
		})
	}
}

func TestAuthentication(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		header string
		userID int
		want   int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "unknown subject", userID: unknownUserID, want: http.StatusUnauthorized},
		{name: "valid customer", userID: customerID, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.header == "" {
				status, _ := server.do(t, http.MethodGet, "/api/me", tt.userID, "")
				assert.Equal(t, tt.want, status)
				return
			}

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set(fiber.HeaderAuthorization, tt.header)
			resp, err := server.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestMe_ReturnsActor(t *testing.T) {
	server := newTestServer(t)

	status, body := server.do(t, http.MethodGet, "/api/me", adminWorkerID, "")

	require.Equal(t, http.StatusOK, status)
	actor := body["actor"].(map[string]any)
	assert.Equal(t, "worker", actor["role"])
	assert.Equal(t, true, actor["is_admin"])
}

func TestRoleGates(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		userID int
		body   string
		want   int
	}{
		{name: "customer cannot list customers", method: http.MethodGet, path: "/api/customers", userID: customerID, want: http.StatusForbidden},
		{name: "worker lists customers", method: http.MethodGet, path: "/api/customers", userID: workerID, want: http.StatusOK},
		{name: "worker gets customer", method: http.MethodGet, path: "/api/customers/1", userID: workerID, want: http.StatusOK},
		{name: "worker updates customer", method: http.MethodPut, path: "/api/customers/1", userID: workerID, body: `{"name":"Ana"}`, want: http.StatusOK},
		{name: "employee cannot list workers", method: http.MethodGet, path: "/api/workers", userID: workerID, want: http.StatusForbidden},
		{name: "customer cannot list workers", method: http.MethodGet, path: "/api/workers", userID: customerID, want: http.StatusForbidden},
		{name: "admin lists workers", method: http.MethodGet, path: "/api/workers", userID: adminWorkerID, want: http.StatusOK},
		{name: "admin creates worker", method: http.MethodPost, path: "/api/workers", userID: adminWorkerID, body: `{"name":"Eva"}`, want: http.StatusCreated},
		{name: "admin updates worker", method: http.MethodPut, path: "/api/workers/4", userID: adminWorkerID, body: `{"name":"Davi"}`, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := server.do(t, tt.method, tt.path, tt.userID, tt.body)
			assert.Equal(t, tt.want, status)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "/home", body["redirect"])
			}
		})
	}
}

func TestJobRoutes(t *testing.T) {
	server := newTestServer(t)

	t.Run("list", func(t *testing.T) {
		status, body := server.do(t, http.MethodGet, "/api/jobs?page=2", customerID, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, customerID, server.jobs.lastActor.ID)
		assert.NotNil(t, body["data"])
	})

	t.Run("options is not treated as an id", func(t *testing.T) {
		status, _ := server.do(t, http.MethodGet, "/api/jobs/options?customer=7", workerID, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, 7, server.jobs.lastOptions)
	})

	t.Run("get", func(t *testing.T) {
		status, body := server.do(t, http.MethodGet, "/api/jobs/50", workerID, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(50), body["id"])
	})

	t.Run("get missing", func(t *testing.T) {
		status, body := server.do(t, http.MethodGet, "/api/jobs/51", workerID, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "/home", body["redirect"])
	})

	t.Run("get non numeric id", func(t *testing.T) {
		status, _ := server.do(t, http.MethodGet, "/api/jobs/abc", workerID, "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("create", func(t *testing.T) {
		status, body := server.do(t, http.MethodPost, "/api/jobs", customerID,
			`{"date":"2026-10-20T13:00:00Z","bath":true,"groom":false,"pet":10,"worker":4}`)
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, float64(10), body["pet_id"])
	})

	t.Run("malformed body", func(t *testing.T) {
		status, _ := server.do(t, http.MethodPost, "/api/jobs", customerID, `{"date":`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("update", func(t *testing.T) {
		status, _ := server.do(t, http.MethodPatch, "/api/jobs/50", workerID, `{"accepted_at":"2026-10-19T12:00:00Z"}`)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  string
	}{
		{name: "validation", err: types.Validation("date", "date is required"), wantStatus: http.StatusUnprocessableEntity, wantField: "date"},
		{name: "bare validation", err: types.ErrValidation, wantStatus: http.StatusUnprocessableEntity, wantField: "_"},
		{name: "conflict", err: types.Conflict("accepted_at", "already decided"), wantStatus: http.StatusConflict, wantField: "accepted_at"},
		{name: "permission", err: fmt.Errorf("%w: delivered", types.ErrPermissionDenied), wantStatus: http.StatusForbidden},
		{name: "unauthorized", err: types.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "not found", err: types.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "fiber error", err: fiber.NewError(http.StatusBadRequest, "bad"), wantStatus: http.StatusBadRequest},
		{name: "unknown", err: fmt.Errorf("database exploded"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			server.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.wantField != "" {
				fields := body["errors"].(map[string]any)
				assert.Contains(t, fields, tt.wantField)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, body["message"], "exploded")
			}
		})
	}
}

func TestCreateCustomer_ValidationBody(t *testing.T) {
	server := newTestServer(t)

	status, body := server.do(t, http.MethodPost, "/api/customers", workerID, `{"cpf":"123"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, map[string]any{"cpf": "CPF is invalid"}, body["errors"])
}

func TestGetPet_Denied(t *testing.T) {
	server := newTestServer(t)

	status, body := server.do(t, http.MethodGet, "/api/pets/11", customerID, "")

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "/home", body["redirect"])
}
