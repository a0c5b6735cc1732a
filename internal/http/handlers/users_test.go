package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Deceus/devconnect/internal/auth"
	"github.com/Deceus/devconnect/internal/domain/user"
	"github.com/Deceus/devconnect/internal/http/handlers"
	"github.com/Deceus/devconnect/internal/http/middlewares"
	"github.com/Deceus/devconnect/internal/jobs"
	"github.com/Deceus/devconnect/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func newUUID() string {
	return uuid.NewString()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake store implementing handlers.UserReader and handlers.UserWriter

type fakeUsersStore struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	getByIDFn    func(ctx context.Context, id string) (user.User, error)
	createFn     func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error)
}

func (f *fakeUsersStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, nil
}

func (f *fakeUsersStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}

	return user.User{}, nil
}

func (f *fakeUsersStore) Create(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name, avatar)
	}

	return user.User{}, nil
}

type fakeEnqueuer struct {
	enqueueFn func(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error)
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, t jobs.JobType, payload any) (jobs.Job, error) {
	if f.enqueueFn != nil {
		return f.enqueueFn(ctx, t, payload)
	}

	return jobs.Job{}, nil
}

type fakeIssuer struct {
	issueFn func(userID, name, avatar string) (string, error)
}

func (f *fakeIssuer) Issue(userID, name, avatar string) (string, error) {
	if f.issueFn != nil {
		return f.issueFn(userID, name, avatar)
	}

	return "Bearer fake-token", nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// Register tests

func TestRegisterHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"name": "Ada Lovelace",
				"email": "ada@example.com",
				"password": "secret123",
				"password2": "secret123"
			}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.createFn = func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
					return user.User{
						ID:           newUUID(),
						Email:        email,
						PasswordHash: passwordHash,
						Name:         name,
						Avatar:       avatar,
						CreatedAt:    now,
						UpdatedAt:    now,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "password_mismatch",
			body: `{
				"name": "Ada Lovelace",
				"email": "ada@example.com",
				"password": "secret123",
				"password2": "different"
			}`,
			storeSetUp: func(f *fakeUsersStore) {
				// invalid payload, store should not be called
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "invalid_email",
			body: `{
				"name": "Ada Lovelace",
				"email": "not-an-email",
				"password": "secret123",
				"password2": "secret123"
			}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{
				"name": "Ada Lovelace",
				"email": "ada@example.com",
				"password": "secret123",
				"password2": "secret123"
			}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.createFn = func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "store_error",
			body: `{
				"name": "Ada Lovelace",
				"email": "ada@example.com",
				"password": "secret123",
				"password2": "secret123"
			}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.createFn = func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			h := handlers.NewUsersHandler(store, store, &fakeIssuer{}, &fakeEnqueuer{}, discardLogger())

			r := setupRouter(http.MethodPost, "/api/users/register", h.Register)

			req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRegisterHandler_NeverLeaksPasswordHash(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeUsersStore{
		createFn: func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
			return user.User{
				ID:           newUUID(),
				Email:        email,
				PasswordHash: passwordHash,
				Name:         name,
				Avatar:       avatar,
				CreatedAt:    now,
				UpdatedAt:    now,
			}, nil
		},
	}

	h := handlers.NewUsersHandler(store, store, &fakeIssuer{}, &fakeEnqueuer{}, discardLogger())
	r := setupRouter(http.MethodPost, "/api/users/register", h.Register)

	body := `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"password": "secret123",
		"password2": "secret123"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	lower := strings.ToLower(w.Body.String())

	if strings.Contains(lower, "password") || strings.Contains(lower, "hash") {
		t.Fatalf("response leaks password material: %s", w.Body.String())
	}

	var resp struct {
		Avatar string `json:"avatar"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !strings.Contains(resp.Avatar, "gravatar.com/avatar/") {
		t.Fatalf("expected gravatar avatar URL, got %q", resp.Avatar)
	}
}

func TestRegisterHandler_EnqueuesWelcomeJob(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeUsersStore{
		createFn: func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
			return user.User{ID: newUUID(), Email: email, Name: name, CreatedAt: now, UpdatedAt: now}, nil
		},
	}

	var gotType jobs.JobType
	enq := &fakeEnqueuer{
		enqueueFn: func(ctx context.Context, jt jobs.JobType, payload any) (jobs.Job, error) {
			gotType = jt
			return jobs.Job{ID: newUUID(), Type: jt}, nil
		},
	}

	h := handlers.NewUsersHandler(store, store, &fakeIssuer{}, enq, discardLogger())
	r := setupRouter(http.MethodPost, "/api/users/register", h.Register)

	body := `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"password": "secret123",
		"password2": "secret123"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if gotType != jobs.JobSendWelcomeEmail {
		t.Fatalf("expected welcome job enqueued, got %q", gotType)
	}
}

func TestRegisterHandler_EnqueueFailureStillSucceeds(t *testing.T) {
	now := time.Now().UTC()
	store := &fakeUsersStore{
		createFn: func(ctx context.Context, email, passwordHash, name, avatar string) (user.User, error) {
			return user.User{ID: newUUID(), Email: email, Name: name, CreatedAt: now, UpdatedAt: now}, nil
		},
	}

	enq := &fakeEnqueuer{
		enqueueFn: func(ctx context.Context, jt jobs.JobType, payload any) (jobs.Job, error) {
			return jobs.Job{}, errors.New("redis down")
		},
	}

	h := handlers.NewUsersHandler(store, store, &fakeIssuer{}, enq, discardLogger())
	r := setupRouter(http.MethodPost, "/api/users/register", h.Register)

	body := `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"password": "secret123",
		"password2": "secret123"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("enqueue failure must not fail registration, got %d body=%s", w.Code, w.Body.String())
	}
}

// Login tests

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	userID := newUUID()
	stored := user.User{
		ID:           userID,
		Email:        "ada@example.com",
		PasswordHash: hash,
		Name:         "Ada Lovelace",
		Avatar:       "https://www.gravatar.com/avatar/x",
	}

	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email": "ada@example.com", "password": "secret123"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unknown_email",
			body: `{"email": "nobody@example.com", "password": "secret123"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "wrong_password",
			body: `{"email": "ada@example.com", "password": "wrong-password"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "validation_error",
			body:           `{"email": "ada@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "store_error",
			body: `{"email": "ada@example.com", "password": "secret123"}`,
			storeSetUp: func(f *fakeUsersStore) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			jwt := auth.NewManager("test-secret", time.Hour)
			h := handlers.NewUsersHandler(store, store, jwt, &fakeEnqueuer{}, discardLogger())

			r := setupRouter(http.MethodPost, "/api/users/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var resp struct {
				Success bool   `json:"success"`
				Token   string `json:"token"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if !resp.Success {
				t.Fatalf("expected success=true, body=%s", w.Body.String())
			}

			if !strings.HasPrefix(resp.Token, "Bearer ") {
				t.Fatalf("expected token with Bearer scheme, got %q", resp.Token)
			}

			claims, err := jwt.Verify(auth.StripScheme(resp.Token))
			if err != nil {
				t.Fatalf("issued token does not verify: %v", err)
			}

			if claims.UserID != userID {
				t.Fatalf("token identifies %q, want %q", claims.UserID, userID)
			}
		})
	}
}

// Current identity tests, run through the real auth middleware so the whole
// header-to-claims path is covered.

func TestCurrentHandler(t *testing.T) {
	userID := newUUID()
	jwt := auth.NewManager("test-secret", time.Hour)

	token, err := jwt.Issue(userID, "Ada Lovelace", "https://www.gravatar.com/avatar/x")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		storeSetUp     func(*fakeUsersStore)
		wantStatusCode int
	}{
		{
			name:       "success",
			authHeader: token,
			storeSetUp: func(f *fakeUsersStore) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					if id != userID {
						return user.User{}, errors.New("unexpected id " + id)
					}
					return user.User{ID: id, Email: "ada@example.com", Name: "Ada Lovelace"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "garbage_token",
			authHeader:     "Bearer not-a-jwt",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:       "user_gone",
			authHeader: token,
			storeSetUp: func(f *fakeUsersStore) {
				f.getByIDFn = func(ctx context.Context, id string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUsersStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			h := handlers.NewUsersHandler(store, store, jwt, &fakeEnqueuer{}, discardLogger())
			authMw := middlewares.NewAuthMiddleware(jwt)

			r := gin.New()
			r.GET("/api/users/current", authMw.RequireAuth(), h.Current)

			req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)

			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
