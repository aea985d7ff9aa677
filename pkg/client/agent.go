package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/tasklist/domain"
)

// ErrNotAuthenticated is returned by task operations before login.
var ErrNotAuthenticated = errors.New("not logged in")

// API is the server surface the agent needs. *Client implements it.
type API interface {
	Register(ctx context.Context, username, password string) (*Credentials, error)
	Login(ctx context.Context, username, password string) (*Credentials, error)
	Me(ctx context.Context, token string) (*domain.UserInfo, error)
	ListTasks(ctx context.Context, token string) ([]domain.Task, error)
	CreateTask(ctx context.Context, token, text string) (*domain.Task, error)
	UpdateTask(ctx context.Context, token, id string, update Update) (*domain.Task, error)
	DeleteTask(ctx context.Context, token, id string) error
	ClearCompleted(ctx context.Context, token string) (int, error)
}

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Event drives state transitions.
type Event int

const (
	LoginSucceeded Event = iota
	LoggedOut
	AuthRejected
)

func (e Event) String() string {
	switch e {
	case LoginSucceeded:
		return "login_succeeded"
	case LoggedOut:
		return "logged_out"
	case AuthRejected:
		return "auth_rejected"
	}
	return "unknown"
}

type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	}
	return "all"
}

// ParseFilter accepts all, active or completed.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", s)
}

// Match reports whether t is visible under f.
func (f Filter) Match(t domain.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// View is a snapshot handed to subscribers.
type View struct {
	State  State
	User   domain.UserInfo
	Filter Filter
	// Tasks holds the tasks visible under Filter.
	Tasks       []domain.Task
	ActiveCount int
	// Err is the last read failure, shown inline instead of the list.
	Err error
}

// Agent owns the client session and the local task list. Toggle and Delete are
// applied locally before the server answers; a failed mutation resynchronizes
// from the server.
type Agent struct {
	api    API
	creds  CredentialStore
	logger *zap.Logger
	group  singleflight.Group

	mu      sync.Mutex
	state   State
	session *Credentials
	server  []domain.Task
	local   []domain.Task
	filter  Filter
	readErr error
	nextSub int
	subs    map[int]func(View)
}

func NewAgent(api API, creds CredentialStore, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		api:    api,
		creds:  creds,
		logger: logger,
		subs:   map[int]func(View){},
	}
}

// Start restores a stored session. The token is not checked until the first
// request that needs it.
func (a *Agent) Start() error {
	stored, err := a.creds.Load()
	if err != nil {
		return err
	}
	if stored != nil && stored.Token != "" {
		a.dispatch(LoginSucceeded, stored)
	}
	return nil
}

// Subscribe registers fn for every change and returns a function removing it.
func (a *Agent) Subscribe(fn func(View)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Agent) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked()
}

// Visible returns the tasks matching the current filter.
func (a *Agent) Visible() []domain.Task {
	return a.View().Tasks
}

func (a *Agent) SetFilter(f Filter) {
	a.update(func() { a.filter = f })
}

func (a *Agent) Register(ctx context.Context, username, password string) error {
	creds, err := a.api.Register(ctx, username, password)
	if err != nil {
		return err
	}
	return a.loggedIn(ctx, creds)
}

func (a *Agent) Login(ctx context.Context, username, password string) error {
	creds, err := a.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return a.loggedIn(ctx, creds)
}

func (a *Agent) loggedIn(ctx context.Context, creds *Credentials) error {
	if err := a.creds.Save(creds); err != nil {
		return err
	}
	a.dispatch(LoginSucceeded, creds)
	return a.Refresh(ctx)
}

func (a *Agent) Logout() error {
	err := a.creds.Clear()
	a.dispatch(LoggedOut, nil)
	return err
}

// WhoAmI asks the server who the stored token belongs to. Unlike Start it
// validates the token, logging out when the server rejects it.
func (a *Agent) WhoAmI(ctx context.Context) (*domain.UserInfo, error) {
	token, err := a.token()
	if err != nil {
		return nil, err
	}
	info, err := a.api.Me(ctx, token)
	if err != nil {
		a.rejectIfAuth(err)
		return nil, err
	}
	return info, nil
}

// Refresh replaces the local list with the server's. Concurrent calls share
// one request.
func (a *Agent) Refresh(ctx context.Context) error {
	token, err := a.token()
	if err != nil {
		return err
	}

	_, err, _ = a.group.Do("refresh", func() (interface{}, error) {
		tasks, err := a.api.ListTasks(ctx, token)
		if err != nil {
			if a.rejectIfAuth(err) {
				return nil, err
			}
			a.update(func() {
				if a.tokenIs(token) {
					a.readErr = err
				}
			})
			return nil, err
		}

		a.update(func() {
			if !a.tokenIs(token) {
				return
			}
			a.server = tasks
			a.local = cloneTasks(tasks)
			a.readErr = nil
		})
		return nil, nil
	})
	return err
}

// Add creates a task. Text that is empty after trimming is rejected locally.
func (a *Agent) Add(ctx context.Context, text string) (*domain.Task, error) {
	text, ok := domain.NormalizeText(text)
	if !ok {
		return nil, domain.ErrInvalidTaskText
	}
	token, err := a.token()
	if err != nil {
		return nil, err
	}

	created, err := a.api.CreateTask(ctx, token, text)
	if err != nil {
		a.recover(ctx, err)
		return nil, err
	}
	a.update(func() {
		a.server = append(a.server, *created)
		a.local = append(a.local, *created)
	})
	return created, nil
}

// Toggle flips completion locally, then on the server.
func (a *Agent) Toggle(ctx context.Context, id string) error {
	token, err := a.token()
	if err != nil {
		return err
	}

	var completed bool
	found := false
	a.update(func() {
		if i := indexOf(a.local, id); i >= 0 {
			a.local[i].Completed = !a.local[i].Completed
			completed = a.local[i].Completed
			found = true
		}
	})
	if !found {
		return domain.ErrTaskNotFound
	}

	updated, err := a.api.UpdateTask(ctx, token, id, Update{Completed: &completed})
	if err != nil {
		a.recover(ctx, err)
		return err
	}
	a.confirm(*updated)
	return nil
}

// Delete removes the task locally, then on the server.
func (a *Agent) Delete(ctx context.Context, id string) error {
	token, err := a.token()
	if err != nil {
		return err
	}

	found := false
	a.update(func() {
		if i := indexOf(a.local, id); i >= 0 {
			a.local = append(a.local[:i], a.local[i+1:]...)
			found = true
		}
	})
	if !found {
		return domain.ErrTaskNotFound
	}

	if err := a.api.DeleteTask(ctx, token, id); err != nil {
		a.recover(ctx, err)
		return err
	}
	a.update(func() {
		if i := indexOf(a.server, id); i >= 0 {
			a.server = append(a.server[:i], a.server[i+1:]...)
		}
	})
	return nil
}

// Edit replaces a task's text. Empty or unchanged text sends nothing. When the
// server rejects the change the previous text is restored.
func (a *Agent) Edit(ctx context.Context, id, text string) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)

	var previous string
	found, changed := false, false
	a.update(func() {
		i := indexOf(a.local, id)
		if i < 0 {
			return
		}
		found = true
		previous = a.local[i].Text
		if text == "" || text == previous {
			return
		}
		a.local[i].Text = text
		changed = true
	})
	if !found {
		return domain.ErrTaskNotFound
	}
	if !changed {
		return nil
	}

	updated, err := a.api.UpdateTask(ctx, token, id, Update{Text: &text})
	if err != nil {
		if a.rejectIfAuth(err) {
			return err
		}
		a.update(func() {
			if i := indexOf(a.local, id); i >= 0 {
				a.local[i].Text = previous
			}
		})
		return err
	}
	a.confirm(*updated)
	return nil
}

// ClearCompleted removes the caller's completed tasks and reloads the list.
func (a *Agent) ClearCompleted(ctx context.Context) (int, error) {
	token, err := a.token()
	if err != nil {
		return 0, err
	}
	count, err := a.api.ClearCompleted(ctx, token)
	if err != nil {
		a.recover(ctx, err)
		return 0, err
	}
	if err := a.Refresh(ctx); err != nil {
		return count, err
	}
	return count, nil
}

func (a *Agent) dispatch(ev Event, creds *Credentials) {
	a.update(func() {
		from := a.state
		switch ev {
		case LoginSucceeded:
			a.state = Authenticated
			a.session = creds
		case LoggedOut, AuthRejected:
			a.state = Unauthenticated
			a.session = nil
			a.server, a.local = nil, nil
			a.readErr = nil
		}
		a.logger.Debug("client state changed",
			zap.Stringer("event", ev),
			zap.Stringer("from", from),
			zap.Stringer("to", a.state))
	})
}

// recover reconciles after a failed mutation: auth failures end the session,
// anything else reloads the authoritative list.
func (a *Agent) recover(ctx context.Context, err error) {
	if a.rejectIfAuth(err) {
		return
	}
	if rerr := a.Refresh(ctx); rerr != nil {
		a.logger.Warn("resync after failed mutation", zap.Error(rerr))
	}
}

func (a *Agent) rejectIfAuth(err error) bool {
	if !IsAuthFailure(err) {
		return false
	}
	if cerr := a.creds.Clear(); cerr != nil {
		a.logger.Warn("clear credentials", zap.Error(cerr))
	}
	a.dispatch(AuthRejected, nil)
	return true
}

func (a *Agent) confirm(task domain.Task) {
	a.update(func() {
		if i := indexOf(a.server, task.ID); i >= 0 {
			a.server[i] = task
		}
		if i := indexOf(a.local, task.ID); i >= 0 {
			a.local[i] = task
		}
	})
}

func (a *Agent) token() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Authenticated || a.session == nil {
		return "", ErrNotAuthenticated
	}
	return a.session.Token, nil
}

// tokenIs must be called with mu held.
func (a *Agent) tokenIs(token string) bool {
	return a.state == Authenticated && a.session != nil && a.session.Token == token
}

// update applies fn under the lock and notifies subscribers afterwards.
func (a *Agent) update(fn func()) {
	a.mu.Lock()
	fn()
	view := a.viewLocked()
	subs := make([]func(View), 0, len(a.subs))
	for _, s := range a.subs {
		subs = append(subs, s)
	}
	a.mu.Unlock()

	for _, s := range subs {
		s(view)
	}
}

func (a *Agent) viewLocked() View {
	v := View{
		State:  a.state,
		Filter: a.filter,
		Tasks:  []domain.Task{},
		Err:    a.readErr,
	}
	if a.session != nil {
		v.User = a.session.User
	}
	for _, t := range a.local {
		if !t.Completed {
			v.ActiveCount++
		}
		if a.filter.Match(t) {
			v.Tasks = append(v.Tasks, t)
		}
	}
	return v
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}
