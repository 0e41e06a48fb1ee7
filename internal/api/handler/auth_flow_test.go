package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rimba/nft-store/internal/api/middleware"
	"github.com/rimba/nft-store/internal/core/domain"
	"github.com/rimba/nft-store/internal/core/ports"
	"github.com/rimba/nft-store/internal/core/service"
)

// memUserRepo is a minimal in-memory UserRepository for flow tests that
// exercise the real AuthService (bcrypt hashing, token issuance).
type memUserRepo struct {
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.users[u.Username]; ok {
		return nil, domain.ErrUserExists
	}
	copy := *u
	copy.ID = "id-" + u.Username
	r.users[u.Username] = &copy
	out := copy
	return &out, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(context.Context, bool) ([]domain.User, error) { return nil, nil }

func (r *memUserRepo) Update(context.Context, string, ports.UserUpdate) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) SetActive(context.Context, string, bool) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

// Register → 201, login with the right password → 200 + token accepted by the
// auth middleware, login with the wrong password → 401.
func TestAuthFlow_RegisterLogin(t *testing.T) {
	const secret = "flow-secret"
	repo := &memUserRepo{users: make(map[string]*domain.User)}
	authHandler := NewAuthHandler(service.NewAuthService(repo, secret, time.Hour))

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, map[string]any{"error": he.Message})
			return
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			_ = c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/api/nfts", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	}, middleware.Auth(secret))

	do := func(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(http.MethodPost, "/register", `{"username":"alice","password":"pw123456"}`, nil); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body)
	}

	rec := do(http.MethodPost, "/login", `{"username":"alice","password":"pw123456"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body)
	}
	var login map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login["token"] == "" {
		t.Fatalf("login response missing token: %s", rec.Body)
	}

	if rec := do(http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", rec.Code)
	}

	headers := map[string]string{"Authorization": "Bearer " + login["token"]}
	if rec := do(http.MethodGet, "/api/nfts", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("token rejected by middleware: %d (%s)", rec.Code, rec.Body)
	}

	if rec := do(http.MethodGet, "/api/nfts", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}
}
