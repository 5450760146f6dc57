package todo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/todo/internal/shared/middleware"
	"github.com/andrasnagy-data/todo/internal/shared/respond"
	"github.com/andrasnagy-data/todo/internal/shared/token"
)

type (
	Router struct {
		service servicer
		tokens  *token.Manager
	}
)

func NewRouter(service servicer, tokens *token.Manager) chi.Router {
	router := &Router{service: service, tokens: tokens}
	return router.Routes()
}

// Routes are all behind bearer authentication.
func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireBearer(r.tokens))

	router.Post("/", r.CreateTodo)
	router.Get("/", r.GetTodos)
	router.Get("/{id}", r.GetTodoByID)
	router.Put("/{id}", r.UpdateTodo)
	router.Delete("/{id}", r.DeleteTodo)

	return router
}

func (r *Router) CreateTodo(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	userID := middleware.GetUserID(ctx)

	var body CreateTodoIn
	if err := respond.Decode(req, &body); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode todo body")
		respond.Error(w, req, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := r.service.CreateTodo(ctx, userID, body)
	if err != nil {
		r.fail(w, req, err)
		return
	}

	logger.Debug().Str("todo_id", todo.ID).Msg("Todo created")
	respond.JSON(w, req, http.StatusCreated, todo)
}

func (r *Router) GetTodos(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	todos, err := r.service.GetTodos(ctx, middleware.GetUserID(ctx))
	if err != nil {
		r.fail(w, req, err)
		return
	}

	respond.JSON(w, req, http.StatusOK, todos)
}

func (r *Router) GetTodoByID(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	todo, err := r.service.GetTodoByID(ctx, middleware.GetUserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		r.fail(w, req, err)
		return
	}

	respond.JSON(w, req, http.StatusOK, todo)
}

// UpdateTodo merges the supplied fields into the caller's todo.
func (r *Router) UpdateTodo(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	var body UpdateTodoIn
	if err := respond.Decode(req, &body); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode todo body")
		respond.Error(w, req, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := r.service.UpdateTodo(ctx, middleware.GetUserID(ctx), chi.URLParam(req, "id"), body)
	if err != nil {
		r.fail(w, req, err)
		return
	}

	respond.JSON(w, req, http.StatusOK, todo)
}

func (r *Router) DeleteTodo(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.service.DeleteTodo(ctx, middleware.GetUserID(ctx), chi.URLParam(req, "id")); err != nil {
		r.fail(w, req, err)
		return
	}

	respond.Message(w, req, http.StatusOK, "Todo deleted successfully")
}

// fail maps service errors to responses. Missing and foreign todos share the
// same 404 body.
func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTodoNotFound):
		respond.Message(w, req, http.StatusNotFound, "Todo not found")
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidPriority):
		respond.Error(w, req, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOwnerNotFound):
		respond.Message(w, req, http.StatusUnauthorized, "Unauthorized")
	default:
		hlog.FromRequest(req).Error().Err(err).Str("path", req.URL.Path).Msg("Todo request failed")
		respond.Error(w, req, http.StatusInternalServerError, err.Error())
	}
}
