package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrasnagy-data/todo/internal/components/user"
	"github.com/andrasnagy-data/todo/internal/shared/hasher"
	"github.com/andrasnagy-data/todo/internal/shared/token"
)

type fixture struct {
	router chi.Router
	tokens *token.Manager
	alice  *user.User
	bob    *user.User
}

func newFixture(t *testing.T, repo repoer) fixture {
	t.Helper()

	tokens := token.New([]byte("test-secret"), time.Hour)
	users := user.NewService(user.NewMemoryRepo(), hasher.New(bcrypt.MinCost), tokens)

	alice, err := users.CreateUser(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	bob, err := users.CreateUser(context.Background(), "bob", "pw2")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	return fixture{
		router: NewRouter(NewService(repo, users), tokens),
		tokens: tokens,
		alice:  alice,
		bob:    bob,
	}
}

func (f fixture) do(t *testing.T, as *user.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		signed, err := f.tokens.Issue(as.ID)
		if err != nil {
			t.Fatalf("Issue returned error: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+signed)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) Todo {
	t.Helper()

	var got Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode todo %q: %v", rec.Body.String(), err)
	}
	return got
}

func (f fixture) create(t *testing.T, as *user.User, body string) Todo {
	t.Helper()

	rec := f.do(t, as, http.MethodPost, "/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	return decodeTodo(t, rec)
}

func TestCreateTodoDefaults(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	got := f.create(t, f.alice, `{"title":"buy milk"}`)

	if got.ID == "" || got.Title != "buy milk" {
		t.Fatalf("unexpected todo: %+v", got)
	}
	if got.Completed {
		t.Fatal("completed must default to false")
	}
	if got.CreatedBy != f.alice.ID {
		t.Fatalf("created_by = %q, want %q", got.CreatedBy, f.alice.ID)
	}
	if got.CreatedAt.IsZero() || !got.CreatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCreateTodoAllFields(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	got := f.create(t, f.alice, `{"title":"taxes","description":"file them","due_date":"2024-04-15","priority":"high"}`)

	if got.Description != "file them" || got.Priority != PriorityHigh {
		t.Fatalf("unexpected todo: %+v", got)
	}
	want := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	if got.DueDate == nil || !got.DueDate.Equal(want) {
		t.Fatalf("due_date = %v, want %v", got.DueDate, want)
	}
}

func TestCreateTodoValidation(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	cases := map[string]string{
		"missing title":    `{"description":"no title"}`,
		"blank title":      `{"title":"   "}`,
		"unknown priority": `{"title":"x","priority":"urgent"}`,
		"bad due date":     `{"title":"x","due_date":"next tuesday"}`,
		"malformed json":   `{"title":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, f.alice, http.MethodPost, "/", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateTodoUnknownOwner(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	ghost := &user.User{ID: "ghost"}

	rec := f.do(t, ghost, http.MethodPost, "/", `{"title":"x"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRoutesRequireToken(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := f.do(t, nil, method, "/", `{"title":"x"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", method, rec.Code)
		}
	}
}

func TestListTodosIsOwnerScoped(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	mine := f.create(t, f.alice, `{"title":"alice 1"}`)
	f.create(t, f.bob, `{"title":"bob 1"}`)

	var aliceTodos []Todo
	rec := f.do(t, f.alice, http.MethodGet, "/", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &aliceTodos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(aliceTodos) != 1 || aliceTodos[0].ID != mine.ID {
		t.Fatalf("alice sees %+v", aliceTodos)
	}

	var bobTodos []Todo
	rec = f.do(t, f.bob, http.MethodGet, "/", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &bobTodos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	for _, todo := range bobTodos {
		if todo.ID == mine.ID {
			t.Fatal("bob must not see alice's todo")
		}
	}
}

func TestListTodosEmptyIsArray(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())

	rec := f.do(t, f.alice, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("got %d %q, want 200 []", rec.Code, rec.Body.String())
	}
}

func TestForeignTodoIsInvisible(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"secret plans","description":"classified"}`)
	path := "/" + todo.ID

	missing := f.do(t, f.bob, http.MethodGet, "/does-not-exist", "")

	cases := []struct {
		method, body string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"title":"hijacked"}`},
		{http.MethodDelete, ""},
	}
	for _, tc := range cases {
		rec := f.do(t, f.bob, tc.method, path, tc.body)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", tc.method, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "classified") {
			t.Fatalf("%s: response leaks data: %s", tc.method, rec.Body.String())
		}
		if rec.Body.String() != missing.Body.String() {
			t.Fatalf("%s: body %q differs from missing-todo body %q", tc.method, rec.Body.String(), missing.Body.String())
		}
	}

	rec := f.do(t, f.alice, http.MethodGet, path, "")
	if got := decodeTodo(t, rec); got.Title != "secret plans" {
		t.Fatalf("owner's todo changed: %+v", got)
	}
}

func TestGetTodoByID(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"buy milk"}`)

	rec := f.do(t, f.alice, http.MethodGet, "/"+todo.ID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeTodo(t, rec); got.ID != todo.ID {
		t.Fatalf("got %+v", got)
	}
}

func TestUpdateTodoMergesFields(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"buy milk","description":"2 litres","priority":"low"}`)

	rec := f.do(t, f.alice, http.MethodPut, "/"+todo.ID, `{"completed":true,"priority":"high"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeTodo(t, rec)
	if !got.Completed || got.Priority != PriorityHigh {
		t.Fatalf("supplied fields not applied: %+v", got)
	}
	if got.Title != "buy milk" || got.Description != "2 litres" {
		t.Fatalf("unspecified fields changed: %+v", got)
	}
	if got.CreatedBy != f.alice.ID || !got.CreatedAt.Equal(todo.CreatedAt) {
		t.Fatalf("immutable fields changed: %+v", got)
	}
}

func TestUpdateTodoIgnoresOwnerField(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"buy milk"}`)

	body := `{"created_by":"` + f.bob.ID + `","title":"buy oat milk"}`
	got := decodeTodo(t, f.do(t, f.alice, http.MethodPut, "/"+todo.ID, body))

	if got.CreatedBy != f.alice.ID {
		t.Fatalf("owner reassigned to %q", got.CreatedBy)
	}
	if got.Title != "buy oat milk" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestUpdateTodoNoOp(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"buy milk"}`)

	rec := f.do(t, f.alice, http.MethodPut, "/"+todo.ID, `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	got := decodeTodo(t, rec)
	if got.Title != todo.Title || !got.UpdatedAt.Equal(todo.UpdatedAt) {
		t.Fatalf("no-op update changed the todo: %+v vs %+v", got, todo)
	}
}

func TestUpdateTodoDueDate(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	created := f.create(t, f.alice, `{"title":"taxes","due_date":"2024-04-15"}`)

	rec := f.do(t, f.alice, http.MethodPut, "/"+created.ID, `{"title":"file taxes"}`)
	if got := decodeTodo(t, rec); got.DueDate == nil {
		t.Fatal("due_date must survive an update that omits it")
	}

	rec = f.do(t, f.alice, http.MethodPut, "/"+created.ID, `{"due_date":"2024-05-01"}`)
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if got := decodeTodo(t, rec); got.DueDate == nil || !got.DueDate.Equal(want) {
		t.Fatalf("due_date = %v, want %v", got.DueDate, want)
	}

	rec = f.do(t, f.alice, http.MethodPut, "/"+created.ID, `{"due_date":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeTodo(t, rec)
	if got.DueDate != nil {
		t.Fatalf("due_date = %v, want cleared", got.DueDate)
	}
	if strings.Contains(rec.Body.String(), "due_date") {
		t.Fatalf("cleared due_date still rendered: %s", rec.Body.String())
	}
}

func TestUpdateTodoValidation(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"buy milk"}`)

	for _, body := range []string{`{"title":""}`, `{"priority":"someday"}`} {
		rec := f.do(t, f.alice, http.MethodPut, "/"+todo.ID, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestDeleteTodo(t *testing.T) {
	f := newFixture(t, NewMemoryRepo())
	todo := f.create(t, f.alice, `{"title":"buy milk"}`)

	rec := f.do(t, f.alice, http.MethodDelete, "/"+todo.ID, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Todo deleted successfully") {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(t, f.alice, http.MethodGet, "/"+todo.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted todo still readable: %d", rec.Code)
	}
	if rec := f.do(t, f.alice, http.MethodDelete, "/"+todo.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

type brokenRepo struct{}

var errStore = errors.New("server selection timeout")

func (brokenRepo) Create(context.Context, string, CreateTodoIn) (*Todo, error) { return nil, errStore }
func (brokenRepo) List(context.Context, string) ([]Todo, error)               { return nil, errStore }
func (brokenRepo) GetByID(context.Context, string, string) (*Todo, error)      { return nil, errStore }
func (brokenRepo) Update(context.Context, string, string, UpdateTodoIn) (*Todo, error) {
	return nil, errStore
}
func (brokenRepo) Delete(context.Context, string, string) error { return errStore }

func TestStoreFailuresReturnRawError(t *testing.T) {
	f := newFixture(t, brokenRepo{})

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/", `{"title":"x"}`},
		{http.MethodGet, "/", ""},
		{http.MethodGet, "/abc", ""},
		{http.MethodPut, "/abc", `{"completed":true}`},
		{http.MethodDelete, "/abc", ""},
	}
	for _, tc := range cases {
		rec := f.do(t, f.alice, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s %s: status = %d, want 500", tc.method, tc.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error":"server selection timeout"`) {
			t.Fatalf("%s %s: body %s", tc.method, tc.path, rec.Body.String())
		}
	}
}
