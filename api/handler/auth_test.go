package handler_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/testutil"
	"github.com/fastygo/tasklist/internal/testutil/apptest"
	"github.com/fastygo/tasklist/repository"
)

type authBody struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    domain.UserInfo `json:"user"`
}

func TestAuth_AliceScenario(t *testing.T) {
	app := apptest.New(t, testutil.NewMemoryStore())

	resp := app.Do(fasthttp.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`, "")
	if resp.Status != fasthttp.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Status)
	}
	var registered authBody
	resp.Decode(t, &registered)
	if registered.Token == "" || registered.User.Username != "alice" || registered.User.ID == "" {
		t.Fatalf("unexpected register body %+v", registered)
	}

	resp = app.Do(fasthttp.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`, "")
	if resp.Status != fasthttp.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", resp.Status)
	}

	resp = app.Do(fasthttp.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`, "")
	if resp.Status != fasthttp.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.Status)
	}
	var loggedIn authBody
	resp.Decode(t, &loggedIn)
	if loggedIn.Message != "Login successful" || loggedIn.User.ID != registered.User.ID {
		t.Fatalf("unexpected login body %+v", loggedIn)
	}

	task := createTask(t, app, loggedIn.Token, "alice only")
	if task.OwnerID != registered.User.ID {
		t.Fatalf("task owner %q, want %q", task.OwnerID, registered.User.ID)
	}
}

func TestAuth_DuplicateRegistration(t *testing.T) {
	store := testutil.NewMemoryStore()
	app := apptest.New(t, store)
	app.Register(t, "alice", "pw1")

	resp := app.Do(fasthttp.MethodPost, "/auth/register", `{"username":"alice","password":"other"}`, "")
	if resp.Status != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Status)
	}
	if msg := resp.Message(t); msg != "Username already exists" {
		t.Fatalf("unexpected message %q", msg)
	}

	raw, err := store.Load(context.Background(), repository.CollectionUsers)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(users))
	}
	if users[0].PasswordHash == "pw1" || users[0].PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestAuth_MissingFields(t *testing.T) {
	app := apptest.New(t, testutil.NewMemoryStore())

	for _, path := range []string{"/auth/register", "/auth/login"} {
		for _, body := range []string{`{}`, `{"username":"a"}`, `{"password":"b"}`, `garbage`} {
			resp := app.Do(fasthttp.MethodPost, path, body, "")
			if resp.Status != fasthttp.StatusBadRequest {
				t.Fatalf("%s %s: expected 400, got %d", path, body, resp.Status)
			}
		}
	}
}

func TestAuth_UnknownUserIs401(t *testing.T) {
	app := apptest.New(t, testutil.NewMemoryStore())
	resp := app.Do(fasthttp.MethodPost, "/auth/login", `{"username":"ghost","password":"x"}`, "")
	if resp.Status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Status)
	}
}

func TestProfile_Me(t *testing.T) {
	app := apptest.New(t, testutil.NewMemoryStore())
	token := app.Register(t, "carol", "pw")

	resp := app.Do(fasthttp.MethodGet, "/auth/me", "", token)
	if resp.Status != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d body %s", resp.Status, resp.Body)
	}
	var me domain.UserInfo
	resp.Decode(t, &me)
	if me.Username != "carol" {
		t.Fatalf("unexpected profile %+v", me)
	}

	session, err := app.Tokens.Issue("deleted-user", "ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	resp = app.Do(fasthttp.MethodGet, "/auth/me", "", session.Token)
	if resp.Status != fasthttp.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", resp.Status)
	}
}

func TestAuth_LongPassword(t *testing.T) {
	app := apptest.New(t, testutil.NewMemoryStore())
	password := strings.Repeat("p", 80)
	body := `{"username":"alice","password":"` + password + `"}`

	resp := app.Do(fasthttp.MethodPost, "/auth/register", body, "")
	if resp.Status != fasthttp.StatusCreated {
		t.Fatalf("register 80-byte password: expected 201, got %d body %s", resp.Status, resp.Body)
	}
	resp = app.Do(fasthttp.MethodPost, "/auth/login", body, "")
	if resp.Status != fasthttp.StatusOK {
		t.Fatalf("login 80-byte password: expected 200, got %d body %s", resp.Status, resp.Body)
	}
}
