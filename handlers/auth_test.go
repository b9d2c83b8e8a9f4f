package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wanderplan/errdefs"
)

func signedToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{UserID: userID})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func authRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", h.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
	})
	r.GET("/open", h.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	h := testHandler(nil)
	r := authRouter(h)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, "other-secret", "u1"), http.StatusUnauthorized},
		{"no user id claim", "Bearer " + signedToken(t, "test-secret", ""), http.StatusUnauthorized},
		{"valid", "Bearer " + signedToken(t, "test-secret", "u1"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	r := authRouter(testHandler(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"user":""}` {
		t.Fatalf("body = %s, want anonymous user", w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "test-secret", "u42"))
	r.ServeHTTP(w, req)
	if w.Body.String() != `{"user":"u42"}` {
		t.Fatalf("body = %s, want u42", w.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errdefs.NotConfigured("OpenAI"), http.StatusBadRequest},
		{errdefs.InvalidInput("bad dates"), http.StatusBadRequest},
		{errdefs.InvalidCredential("Serper", nil), http.StatusUnauthorized},
		{errdefs.RateLimited("OpenAI", nil), http.StatusTooManyRequests},
		{errdefs.DestinationNotResolved("Atlantis"), http.StatusNotFound},
		{errdefs.ResponseFormat(nil), http.StatusBadGateway},
		{errdefs.StoreUnavailable(), http.StatusServiceUnavailable},
		{errdefs.Upstream("Hotelbeds", 503, nil), http.StatusServiceUnavailable},
		{errdefs.Upstream("Hotelbeds", 0, nil), http.StatusBadGateway},
		{http.ErrBodyNotAllowed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
