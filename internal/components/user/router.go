package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/todo/internal/shared/respond"
)

type (
	Router struct {
		service *Service
	}
)

func NewRouter(service *Service) chi.Router {
	router := &Router{service: service}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/signup", r.Signup)
	router.Post("/login", r.Login)
	router.Get("/users", r.ListUsers)
	return router
}

// Signup creates a user. The stored hash is never part of the response.
func (r *Router) Signup(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	var body CredentialsIn
	if err := respond.Decode(req, &body); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode signup body")
		respond.Error(w, req, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := r.service.CreateUser(ctx, body.Username, body.Password)
	switch {
	case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrPasswordTooLong):
		respond.Error(w, req, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrDuplicateUsername):
		logger.Debug().Str("username", body.Username).Msg("Signup rejected: username taken")
		respond.Message(w, req, http.StatusConflict, "Username already exists")
		return
	case err != nil:
		logger.Error().Err(err).Str("username", body.Username).Msg("Signup failed")
		respond.Error(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User signed up")
	respond.JSON(w, req, http.StatusCreated, user)
}

func (r *Router) Login(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	var body CredentialsIn
	if err := respond.Decode(req, &body); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode login body")
		respond.Error(w, req, http.StatusBadRequest, "invalid request body")
		return
	}

	logger.Debug().Str("username", body.Username).Msg("Login attempt")

	jwtToken, err := r.service.Login(ctx, body.Username, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn().Str("username", body.Username).Msg("Login failed: invalid credentials")
			respond.Message(w, req, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		logger.Error().Err(err).Str("username", body.Username).Msg("Login failed")
		respond.Error(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, req, http.StatusOK, LoginOut{JWTToken: jwtToken})
}

// ListUsers is public. Password hashes are not serialized.
func (r *Router) ListUsers(w http.ResponseWriter, req *http.Request) {
	users, err := r.service.List(req.Context())
	if err != nil {
		hlog.FromRequest(req).Error().Err(err).Msg("Error listing users")
		respond.Error(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, req, http.StatusOK, users)
}
