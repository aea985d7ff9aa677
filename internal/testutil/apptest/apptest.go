// Package apptest assembles the full HTTP stack over an arbitrary document
// store for black-box tests.
package apptest

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	apiHandler "github.com/fastygo/tasklist/api/handler"
	"github.com/fastygo/tasklist/internal/auth"
	"github.com/fastygo/tasklist/internal/infrastructure/monitor"
	"github.com/fastygo/tasklist/internal/middleware"
	"github.com/fastygo/tasklist/internal/router"
	"github.com/fastygo/tasklist/internal/testutil"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/repository"
	"github.com/fastygo/tasklist/repository/collection"
	authUC "github.com/fastygo/tasklist/usecase/auth"
	profileUC "github.com/fastygo/tasklist/usecase/profile"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

// App is a wired server without a listener.
type App struct {
	Store   repository.DocumentStore
	Tokens  *auth.TokenManager
	Monitor *monitor.Monitor
	Handler fasthttp.RequestHandler
}

// New wires every layer over store, as cmd/server does.
func New(t *testing.T, store repository.DocumentStore) *App {
	t.Helper()

	tokens := testutil.Tokens()
	users := collection.NewUserRepository(store, false)
	tasks := collection.NewTaskRepository(store, false)
	adapter := httpcontext.NewAdapter(5 * time.Second)

	mon := monitor.New(store, "test", time.Minute, nil)
	mon.Refresh()

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUC.New(users, testutil.Hasher(), tokens, nil), adapter, nil),
		Profile: apiHandler.NewProfileHandler(profileUC.New(users, nil), adapter, nil),
		Task:    apiHandler.NewTaskHandler(taskUC.New(tasks, nil), adapter, nil),
		Health:  apiHandler.NewHealthHandler(mon, adapter, nil),
	}
	r := router.New(handlers, middleware.JWTAuth(tokens, nil), nil)

	return &App{
		Store:   store,
		Tokens:  tokens,
		Monitor: mon,
		Handler: router.Handler(r, nil),
	}
}

// Response is the recorded outcome of Do.
type Response struct {
	Status int
	Body   []byte
	Header map[string]string
}

// Decode unmarshals the body into v, failing the test on error.
func (r *Response) Decode(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %q: %v", r.Body, err)
	}
}

// Message returns the "message" field of a JSON body.
func (r *Response) Message(t *testing.T) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	r.Decode(t, &body)
	return body.Message
}

// Do runs one request through the handler chain. An empty token sends no
// Authorization header.
func (a *App) Do(method, path, body, token string) *Response {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}, nil)
	a.Handler(&ctx)

	header := map[string]string{}
	ctx.Response.Header.VisitAll(func(k, v []byte) {
		header[string(k)] = string(v)
	})
	return &Response{
		Status: ctx.Response.StatusCode(),
		Body:   append([]byte(nil), ctx.Response.Body()...),
		Header: header,
	}
}

// Register creates a user and returns the issued token.
func (a *App) Register(t *testing.T, username, password string) string {
	t.Helper()
	resp := a.Do(fasthttp.MethodPost, "/auth/register",
		`{"username":"`+username+`","password":"`+password+`"}`, "")
	if resp.Status != fasthttp.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, resp.Status, resp.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	resp.Decode(t, &out)
	return out.Token
}

// Serve exposes the handler on an in-memory listener and returns a client
// dialing it. The server stops when the test ends.
func (a *App) Serve(t *testing.T) *fasthttp.Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: a.Handler}
	go func() {
		_ = server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = ln.Close()
	})

	return &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			return ln.Dial()
		},
	}
}
