package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	accountDomain "loancore/internal/domain/account"
	"loancore/internal/domain/actor"
	appDomain "loancore/internal/domain/application"
	"loancore/internal/domain/credit"
	loanDomain "loancore/internal/domain/loan"
	"loancore/internal/domain/user"
	accountUC "loancore/internal/usecase/account"
)

// requireActor resolves the already-authenticated caller from the gateway
// headers and enforces the role allow-list for the route.
func requireActor(c echo.Context, allowed ...actor.Role) (actor.Actor, error) {
	id := strings.TrimSpace(c.Request().Header.Get("X-Actor-Id"))
	role := actor.Role(strings.ToUpper(strings.TrimSpace(c.Request().Header.Get("X-Actor-Role"))))
	if id == "" || role == "" {
		return actor.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing X-Actor-Id or X-Actor-Role")
	}
	for _, r := range allowed {
		if role == r {
			return actor.Actor{ID: id, Role: role}, nil
		}
	}
	return actor.Actor{}, echo.NewHTTPError(http.StatusForbidden, "role not allowed for this operation")
}

// writeDomainError maps domain errors onto HTTP statuses. Anything unknown is
// a 500 with no internals leaked.
func writeDomainError(c echo.Context, err error) error {
	var ne *appDomain.NotEligibleError
	switch {
	case errors.As(err, &ne):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: ne.Error()})
	case errors.Is(err, appDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, accountDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, appDomain.ErrConflict),
		errors.Is(err, loanDomain.ErrConflict),
		errors.Is(err, appDomain.ErrDuplicateKey):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, appDomain.ErrReasonRequired),
		errors.Is(err, appDomain.ErrInvalidInput),
		errors.Is(err, credit.ErrInvalidInput),
		errors.Is(err, accountUC.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
