// Package users contiene el controller de /api/users y /api/admin/users.
package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/ezdine/internal/http/dto/common"
	dto "github.com/dropDatabas3/ezdine/internal/http/dto/users"
	httperrors "github.com/dropDatabas3/ezdine/internal/http/errors"
	"github.com/dropDatabas3/ezdine/internal/http/helpers"
	"github.com/dropDatabas3/ezdine/internal/http/middlewares"
	svc "github.com/dropDatabas3/ezdine/internal/http/services/users"
	"github.com/dropDatabas3/ezdine/internal/observability/logger"
)

type UsersController struct {
	service svc.UserService
}

func NewUsersController(service svc.UserService) *UsersController {
	return &UsersController{service: service}
}

// Register maneja POST /api/users (público).
func (c *UsersController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Register"))

	var req dto.RegisterRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	res, err := c.service.Register(ctx, req)
	if err != nil {
		handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.OK("User registration success", res))
}

// Get maneja GET /api/users: la cuenta de la sesión.
func (c *UsersController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Get"))

	s := middlewares.GetSession(ctx)
	if s == nil {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}
	res, err := c.service.Current(ctx, s.Identity)
	if err != nil {
		handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.OK("User fetching success", res))
}

// Update maneja PATCH /api/users: cambio de password propio.
func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Update"))

	s := middlewares.GetSession(ctx)
	if s == nil {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}
	var req dto.UpdateRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	res, err := c.service.UpdatePassword(ctx, s.Identity, req)
	if err != nil {
		handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.OK("User password successfully updated", res))
}

// Lookup maneja GET /api/admin/users/{email}.
func (c *UsersController) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.Lookup"))

	res, err := c.service.Lookup(ctx, chi.URLParam(r, "email"))
	if err != nil {
		handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, common.OK("User fetching success", res))
}

func handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	var weak *svc.WeakPasswordError
	switch {
	case errors.As(err, &weak):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak.WithDetail(weak.Error()))
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("email, password and role are required"))
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid email"))
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyRegistered)
	case errors.Is(err, svc.ErrRoleNotFound):
		httperrors.WriteError(w, httperrors.ErrRoleNotFound)
	case errors.Is(err, svc.ErrRoleNotAllowed):
		httperrors.WriteError(w, httperrors.ErrRoleNotAllowed)
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)
	default:
		log.Error("users request failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
