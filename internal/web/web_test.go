// ABOUTME: End-to-end tests for the web UI over a real HTTP server
// ABOUTME: Covers login, CSRF, the todo pages, the injected fault, and logout

package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/todo-web/internal/auth"
	"github.com/2389/todo-web/internal/store"
)

// testSecret is a 32-byte secret that meets MinSecretLength requirement.
var testSecret = []byte("web-layer-session-test-secret-32")

type testEnv struct {
	server *httptest.Server
	client *http.Client
	store  *store.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	todos := store.NewMemoryStore()
	users, err := auth.DefaultUsers()
	require.NoError(t, err)
	sessions, err := auth.NewSessions(testSecret, time.Hour)
	require.NoError(t, err)
	t.Cleanup(sessions.Close)

	app, err := New(todos, users, sessions, Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)

	mux := http.NewServeMux()
	app.RegisterRoutes(mux)
	server := httptest.NewServer(app.Protect(mux))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{server: server, client: client, store: todos}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) csrfToken(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(e.server.URL)
	require.NoError(t, err)
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == auth.CSRFCookieName {
			return c.Value
		}
	}
	t.Fatal("no CSRF cookie")
	return ""
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	e.get(t, "/login")
	resp, _ := e.post(t, "/login", url.Values{
		"username":         {"in28Minutes"},
		"password":         {"dummy"},
		auth.CSRFFieldName: {e.csrfToken(t)},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/list-todos", "/add-todo", "/update-todo?id=2", "/delete-todo?id=2", "/help"} {
		resp, _ := env.get(t, path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="username"`)
	assert.Contains(t, body, env.csrfToken(t))
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/login")

	resp, body := env.post(t, "/login", url.Values{
		"username":         {"in28Minutes"},
		"password":         {"wrong"},
		auth.CSRFFieldName: {env.csrfToken(t)},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, MsgBadCredentials)

	resp, _ = env.get(t, "/list-todos")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogin_RequiresCSRF(t *testing.T) {
	env := newTestEnv(t)
	env.get(t, "/login")

	resp, body := env.post(t, "/login", url.Values{
		"username": {"in28Minutes"},
		"password": {"dummy"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Access Denied")
}

func TestWelcomeAndList(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome in28Minutes!!")

	resp, body = env.get(t, "/list-todos")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, desc := range []string{"Learn Spring MVC", "Learn Struts", "Learn Hibernate"} {
		assert.Contains(t, body, desc)
	}

	resp, _ = env.get(t, "/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "logged-in users skip the login page")
}

func TestAddTodo(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/add-todo")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Default Desc")

	resp, body = env.post(t, "/add-todo", url.Values{
		"desc":             {"short"},
		"targetDate":       {"01/02/2031"},
		auth.CSRFFieldName: {env.csrfToken(t)},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enter at least 10 Characters...")
	_, err := env.store.GetTodo(t.Context(), 4)
	assert.ErrorIs(t, err, store.ErrNotFound)

	resp, _ = env.post(t, "/add-todo", url.Values{
		"desc":             {"Learn Go the hard way"},
		"targetDate":       {"01/02/2031"},
		auth.CSRFFieldName: {env.csrfToken(t)},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/list-todos", resp.Header.Get("Location"))

	added, err := env.store.GetTodo(t.Context(), 4)
	require.NoError(t, err)
	assert.Equal(t, "in28Minutes", added.User)

	_, body = env.get(t, "/list-todos")
	assert.Contains(t, body, "Learn Go the hard way")
	assert.Contains(t, body, "01/02/2031")
}

func TestAddTodo_WithoutCSRFIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, _ := env.post(t, "/add-todo", url.Values{
		"desc":       {"Learn Go the hard way"},
		"targetDate": {"01/02/2031"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, err := env.store.GetTodo(t.Context(), 4)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateTodo(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/update-todo?id=2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Learn Struts")

	resp, _ = env.post(t, "/update-todo?id=2", url.Values{
		"id":               {"2"},
		"desc":             {"Learn Struts again"},
		"targetDate":       {"03/04/2031"},
		"done":             {"on"},
		auth.CSRFFieldName: {env.csrfToken(t)},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	got, err := env.store.GetTodo(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Learn Struts again", got.Desc)
	assert.True(t, got.Done)
}

func TestUpdateTodo_UnknownIDShowsBlankForm(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/update-todo?id=77")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="id" value="77"`)
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	for _, path := range []string{"/update-todo?id=abc", "/delete-todo?id=", "/delete-todo"} {
		resp, _ := env.get(t, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}

	resp, _ := env.post(t, "/update-todo", url.Values{
		"id":               {"x"},
		"desc":             {"Long enough description"},
		"targetDate":       {"01/01/2030"},
		auth.CSRFFieldName: {env.csrfToken(t)},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteTodo(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, _ := env.get(t, "/delete-todo?id=3")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/list-todos", resp.Header.Get("Location"))

	_, err := env.store.GetTodo(t.Context(), 3)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTodo_InjectedFault(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/delete-todo?id=1")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Something went wrong")

	_, err := env.store.GetTodo(t.Context(), 1)
	assert.NoError(t, err, "todo 1 must survive")
}

func TestHelp(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/help")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h1>Getting Started</h1>")
	assert.Contains(t, body, "Managing Todos")

	resp, body = env.get(t, "/help?topic=managing-todos")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<code>dd/MM/yyyy</code>")

	resp, _ = env.get(t, "/help?topic=../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnmatchedPathIsDenied(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.get(t, "/admin")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Access Denied")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	u, err := url.Parse(env.server.URL)
	require.NoError(t, err)
	var session *http.Cookie
	for _, c := range env.client.Jar.Cookies(u) {
		if c.Name == auth.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	resp, _ := env.post(t, "/logout", url.Values{auth.CSRFFieldName: {env.csrfToken(t)}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?logout", resp.Header.Get("Location"))

	_, body := env.get(t, "/login?logout")
	assert.Contains(t, body, MsgLoggedOut)

	// A copy of the old cookie no longer works.
	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/list-todos", nil)
	require.NoError(t, err)
	req.AddCookie(session)
	resp, err = (&http.Client{CheckRedirect: env.client.CheckRedirect}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}
