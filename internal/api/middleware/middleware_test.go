package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"talleres/config"
	"talleres/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBlacklist struct {
	revoked map[string]bool
	err     error
}

func (s *stubBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func newJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "middleware-test-secret-0123456789",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	mgr := newJWT()
	access, _ := mgr.GenerateAccessToken("u1", "admin")
	refresh, _ := mgr.GenerateRefreshToken("u1", "admin")
	claims, _ := mgr.ParseToken(access)

	tests := []struct {
		name      string
		auth      string
		blacklist TokenBlacklist
		want      int
	}{
		{"缺少认证头", "", nil, http.StatusUnauthorized},
		{"格式错误", "Token " + access, nil, http.StatusUnauthorized},
		{"refresh token 不可访问", "Bearer " + refresh, nil, http.StatusUnauthorized},
		{"合法 token", "Bearer " + access, nil, http.StatusOK},
		{"已注销", "Bearer " + access, &stubBlacklist{revoked: map[string]bool{claims.ID: true}}, http.StatusUnauthorized},
		{"黑名单出错时放行", "Bearer " + access, &stubBlacklist{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", JWTAuth(mgr, tt.blacklist), func(c *gin.Context) {
				c.String(http.StatusOK, c.GetString(CtxUserID))
			})

			w := serve(r, http.MethodGet, "/me", tt.auth)
			if w.Code != tt.want {
				t.Fatalf("期望状态码 %d, 实际=%d body=%s", tt.want, w.Code, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != "u1" {
				t.Errorf("期望注入 user_id=u1, 实际=%s", w.Body.String())
			}
		})
	}
}

func TestRoleAuth(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(CtxRole, c.Query("role"))
	}, RoleAuth("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := serve(r, http.MethodGet, "/admin?role=admin", ""); w.Code != http.StatusOK {
		t.Errorf("admin 期望 200, 实际=%d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/admin?role=staff", ""); w.Code != http.StatusForbidden {
		t.Errorf("staff 期望 403, 实际=%d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter *stubLimiter
		want    int
	}{
		{"放行", &stubLimiter{allowed: true}, http.StatusOK},
		{"超限", &stubLimiter{allowed: false}, http.StatusTooManyRequests},
		{"出错降级放行", &stubLimiter{err: errors.New("redis down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/login", RateLimit(tt.limiter, 5, time.Minute), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, http.MethodPost, "/login", "")
			if w.Code != tt.want {
				t.Fatalf("期望状态码 %d, 实际=%d", tt.want, w.Code)
			}
			if len(tt.limiter.keys) != 1 || !strings.HasSuffix(tt.limiter.keys[0], ":/login") {
				t.Errorf("限流 key 不符合预期: %v", tt.limiter.keys)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("期望沿用传入的 Request-ID, 实际 header=%s", w.Header().Get("X-Request-ID"))
	}

	w = serve(r, http.MethodGet, "/", "")
	if len(w.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("期望生成 UUID, 实际=%q", w.Header().Get("X-Request-ID"))
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"too long body"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413, 实际=%d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检期望 204, 实际=%d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("期望回写 Origin, 实际=%q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}
