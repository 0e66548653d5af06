package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/deliverytech/console/internal/apiclient"
	"github.com/deliverytech/console/internal/events"
	"github.com/deliverytech/console/internal/localstore"
	"github.com/deliverytech/console/internal/session"
)

// fakeBackend stands in for the delivery REST backend.
type fakeBackend struct {
	srv   *httptest.Server
	token string

	// roles handed out by the next login/me pair
	roles []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	fb := &fakeBackend{token: signed, roles: []string{"ROLE_ADMIN"}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds apiclient.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(apiclient.LoginResponse{
			AccessToken: fb.token,
			TokenType:   "Bearer",
			Username:    creds.Username,
			Roles:       fb.roles,
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(apiclient.Me{ID: 7, Username: "maria", Roles: fb.roles})
	})
	mux.HandleFunc("GET /restaurantes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]apiclient.Restaurante{
			{ID: 1, Nome: "Bella Napoli", Categoria: "Pizzaria", TaxaEntrega: 8, Avaliacao: 4.7, Ativo: true},
		})
	})
	mux.HandleFunc("GET /restaurantes/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(apiclient.Restaurante{
			ID: 1, Nome: "Bella Napoli", Categoria: "Pizzaria", Ativo: true,
		})
	})
	mux.HandleFunc("GET /produtos/restaurante/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]apiclient.Produto{
			{ID: 10, Nome: "Margherita", Preco: 30, Disponivel: true},
		})
	})
	mux.HandleFunc("GET /produtos", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]apiclient.Produto{})
	})
	mux.HandleFunc("GET /clientes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]apiclient.Cliente{})
	})
	mux.HandleFunc("GET /pedidos/recentes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]apiclient.Pedido{})
	})
	mux.HandleFunc("POST /pedidos", func(w http.ResponseWriter, r *http.Request) {
		var in apiclient.PedidoInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(apiclient.Pedido{ID: 42, Status: "PENDENTE", ValorTotal: 60})
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

type testEnv struct {
	t       *testing.T
	e       *echo.Echo
	backend *fakeBackend
	cookies map[string]*http.Cookie
	logs    bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fb := newFakeBackend(t)
	store, err := localstore.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)

	env := &testEnv{t: t, backend: fb, cookies: make(map[string]*http.Cookie)}
	logger := slog.New(slog.NewJSONHandler(&env.logs, nil))

	env.e = echo.New()
	err = Register(env.e, &Server{
		Manager:    session.NewManager(fb.srv.URL, store, 0),
		Events:     events.NewProducer(nil, logger),
		CookieName: "console_session",
		Log:        logger,
	})
	require.NoError(t, err)

	// First contact mints the session and CSRF cookies the form posts need.
	rec := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	return env
}

// do sends a request carrying the browser's cookies, echoing the CSRF token
// into non-GET forms the way the rendered pages do.
func (env *testEnv) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	if method != http.MethodGet && form == nil {
		form = url.Values{}
	}
	if form != nil && form.Get("csrf_token") == "" {
		if ck, ok := env.cookies[csrfCookie]; ok {
			form.Set("csrf_token", ck.Value)
		}
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range env.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(env.cookies, ck.Name)
			continue
		}
		env.cookies[ck.Name] = ck
	}
	return rec
}

func (env *testEnv) login(roles ...string) {
	env.t.Helper()
	if len(roles) > 0 {
		env.backend.roles = roles
	}
	rec := env.do(http.MethodPost, "/login", url.Values{
		"username": {"maria"},
		"password": {"secret"},
	})
	require.Equal(env.t, http.StatusSeeOther, rec.Code)
}

func TestHome_RendersRestaurantListing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Bella Napoli")
	require.Contains(t, rec.Body.String(), "Pizzaria")
}

func TestGuard_AnonymousGetsLoginPromptInPlace(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `action="/login"`)
	require.Contains(t, rec.Body.String(), `name="return_to" value="/dashboard"`)
}

func TestGuard_AdminReachesDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.login("ROLE_ADMIN")

	rec := env.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Dashboard")
}

func TestGuard_RoleMismatchRendersDenied(t *testing.T) {
	env := newTestEnv(t)
	env.login("ROLE_CLIENTE")

	rec := env.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Acesso Negado")
	require.Contains(t, body, "ADMIN")
	require.Contains(t, body, "CLIENTE")
}

func TestGuard_AnyRequiredRoleSuffices(t *testing.T) {
	env := newTestEnv(t)
	env.login("ROLE_RESTAURANTE")

	// /admin/restaurantes admits ADMIN or RESTAURANTE
	rec := env.do(http.MethodGet, "/admin/restaurantes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Restaurantes")
}

func TestCartFlow_AddCoalescesAndRendersTotals(t *testing.T) {
	env := newTestEnv(t)

	add := url.Values{
		"produto_id": {"10"},
		"nome":       {"Margherita"},
		"preco":      {"30.00"},
		"return_to":  {"/restaurantes/1"},
	}
	rec := env.do(http.MethodPost, "/cart/add", add)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = env.do(http.MethodPost, "/cart/add", add)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Margherita")
	require.Contains(t, body, "<td>2</td>")
	require.Contains(t, body, "R$ 60.00")
}

func TestCartFlow_RemoveAndClear(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/cart/add", url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
	})

	rec := env.do(http.MethodPost, "/cart/remove", url.Values{"produto_id": {"10"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(http.MethodGet, "/cart", nil)
	require.Contains(t, rec.Body.String(), "Seu carrinho está vazio.")

	// clearing an already empty cart is fine
	rec = env.do(http.MethodPost, "/cart/clear", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestCheckout_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodPost, "/cart/add", url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
	})

	rec := env.do(http.MethodPost, "/cart/checkout", url.Values{
		"restaurante_id": {"1"},
		"endereco":       {"Rua A, 123"},
		"cep":            {"01310-100"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login?return_to=/cart", rec.Header().Get(echo.HeaderLocation))
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	env := newTestEnv(t)
	env.login("ROLE_CLIENTE")

	env.do(http.MethodPost, "/cart/add", url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
	})
	env.do(http.MethodPost, "/cart/add", url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
	})

	rec := env.do(http.MethodPost, "/cart/checkout", url.Values{
		"restaurante_id": {"1"},
		"endereco":       {"Rua A, 123"},
		"cep":            {"01310-100"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = env.do(http.MethodGet, "/cart", nil)
	require.Contains(t, rec.Body.String(), "Seu carrinho está vazio.")
}

func TestCheckout_ValidationErrorsReRenderCart(t *testing.T) {
	env := newTestEnv(t)
	env.login("ROLE_CLIENTE")

	env.do(http.MethodPost, "/cart/add", url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
	})

	rec := env.do(http.MethodPost, "/cart/checkout", url.Values{
		"restaurante_id": {"1"},
		"endereco":       {""},
		"cep":            {"123"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "is required")
	require.Contains(t, body, "Margherita")
}

func TestRestaurantePage_RendersMenu(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/restaurantes/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Bella Napoli")
	require.Contains(t, body, "Margherita")
	require.Contains(t, body, `action="/cart/add"`)
}

func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
	}
	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range env.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodGet, "/cart", nil)
	require.Contains(t, rec.Body.String(), "Seu carrinho está vazio.")
}

func TestCSRF_RejectsWrongToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/cart/add", url.Values{
		"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"},
		"csrf_token": {"forged"},
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_RejectsCrossOriginPost(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"produto_id": {"10"}, "nome": {"Margherita"}, "preco": {"30.00"}}
	form.Set("csrf_token", env.cookies[csrfCookie].Value)
	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Origin", "https://evil.example")
	for _, ck := range env.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_TokenRenderedInForms(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(),
		`name="csrf_token" value="`+env.cookies[csrfCookie].Value+`"`)
}

func TestResolveSession_RemintsMalformedCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var minted string
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "console_session" {
			minted = ck.Value
		}
	}
	require.NotEmpty(t, minted)
	require.NotEqual(t, "../../etc/passwd", minted)
	_, err := uuid.Parse(minted)
	require.NoError(t, err)
}

func TestRequestLogger_RecordsMintedRequestID(t *testing.T) {
	env := newTestEnv(t)

	env.logs.Reset()
	rec := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, env.logs.String(), `"request_id"`)
}

func TestLogout_EndsSession(t *testing.T) {
	env := newTestEnv(t)
	env.login("ROLE_ADMIN")

	rec := env.do(http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `action="/login"`)
}
