package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Anan1218/homehealth/internal/auth"
	api "github.com/Anan1218/homehealth/internal/http"
	"github.com/Anan1218/homehealth/internal/log"
	"github.com/Anan1218/homehealth/internal/provider"
	"github.com/Anan1218/homehealth/internal/queue"
)

// fakeProvider emulates the GoTrue endpoints the service talks to:
// signup, password grant, and token introspection. Session tokens are real
// HS256 JWTs so introspection behaves like the provider's.
type fakeProvider struct {
	mu     sync.Mutex
	users  map[string]*fakeUser
	hits   int
	secret []byte
	srv    *httptest.Server
}

type fakeUser struct {
	ID        string
	Password  string
	FullName  string
	CreatedAt string
}

func newFakeProvider() *fakeProvider {
	f := &fakeProvider{
		users:  make(map[string]*fakeUser),
		secret: []byte("test-gotrue-secret-0123456789abcdef"),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/signup", f.signup)
	mux.HandleFunc("/auth/v1/token", f.token)
	mux.HandleFunc("/auth/v1/user", f.user)
	f.srv = httptest.NewServer(mux)
	return f
}

func (f *fakeProvider) Close() { f.srv.Close() }

func (f *fakeProvider) Hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits
}

func (f *fakeProvider) bump() {
	f.mu.Lock()
	f.hits++
	f.mu.Unlock()
}

func (f *fakeProvider) mintToken(t *fakeUser, email string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   t.ID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString(f.secret)
	if err != nil {
		panic(err)
	}
	return s
}

func (f *fakeProvider) sessionJSON(w http.ResponseWriter, u *fakeUser, email string) {
	meta := map[string]any{}
	if u.FullName != "" {
		meta["full_name"] = u.FullName
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": f.mintToken(u, email),
		"token_type":   "bearer",
		"expires_in":   3600,
		"expires_at":   time.Now().Add(time.Hour).Unix(),
		"user": map[string]any{
			"id":            u.ID,
			"email":         email,
			"user_metadata": meta,
			"created_at":    u.CreatedAt,
		},
	})
}

func (f *fakeProvider) signup(w http.ResponseWriter, r *http.Request) {
	f.bump()
	var in struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	if _, ok := f.users[in.Email]; ok {
		f.mu.Unlock()
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
		return
	}
	u := &fakeUser{
		ID:        uuid.NewString(),
		Password:  in.Password,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if name, ok := in.Data["full_name"].(string); ok {
		u.FullName = name
	}
	f.users[in.Email] = u
	f.mu.Unlock()
	f.sessionJSON(w, u, in.Email)
}

func (f *fakeProvider) token(w http.ResponseWriter, r *http.Request) {
	f.bump()
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	u, ok := f.users[in.Email]
	f.mu.Unlock()
	if !ok || u.Password != in.Password {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "invalid_grant", "error_description": "Invalid login credentials",
		})
		return
	}
	f.sessionJSON(w, u, in.Email)
}

func (f *fakeProvider) user(w http.ResponseWriter, r *http.Request) {
	f.bump()
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"})
		return
	}
	email, _ := claims["email"].(string)
	f.mu.Lock()
	u, ok := f.users[email]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "user not found"})
		return
	}
	meta := map[string]any{}
	if u.FullName != "" {
		meta["full_name"] = u.FullName
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":            u.ID,
		"email":         email,
		"user_metadata": meta,
		"created_at":    u.CreatedAt,
	})
}

type testEnv struct {
	Provider *fakeProvider
	Router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	fake := newFakeProvider()

	admin := provider.New(fake.srv.URL, "service-role-key")
	anon := provider.New(fake.srv.URL, "anon-key")
	svc := auth.NewService(admin, anon)

	h := api.NewHandler(svc, queue.NewNoop(), nil, 0)

	gin.SetMode(gin.TestMode)
	r := api.NewRouter(h, []string{"http://localhost:5173"})

	return &testEnv{Provider: fake, Router: r}
}

func (e *testEnv) Close() {
	e.Provider.Close()
}
