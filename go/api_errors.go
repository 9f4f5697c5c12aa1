package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	identityapp "github.com/Apurer/dairy-storefront/internal/domains/identity/application"
	orderapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/dairy-storefront/internal/shared/errors"
)

var responder = apierrors.NewResponder("", mapOrderError, mapIdentityError)

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderapp.ErrUpdateInFlight):
		return apierrors.ErrConflict.WithDetail("a status update is already in progress"), true
	case errors.Is(err, orderapp.ErrAlreadyMounted):
		return apierrors.ErrConflict.WithDetail("order console is already mounted"), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderapp.ErrNotMounted):
		return apierrors.ErrNotFound.WithDetail("order console is not mounted"), true
	case errors.Is(err, orderapp.ErrOrderNotLoaded):
		return apierrors.ErrNotFound.WithDetail("order is not part of the loaded list"), true
	case errors.Is(err, orderapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("admin session required"), true
	case errors.Is(err, orderapp.ErrFetch):
		return apierrors.ErrUpstream.WithDetail(orderapp.ErrorKindFetch.Message()), true
	case errors.Is(err, orderapp.ErrUpdate):
		return apierrors.ErrUpstream.WithDetail(orderapp.ErrorKindUpdate.Message()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapIdentityError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, identityapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail("invalid username or password"), true
	case errors.Is(err, identityapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondConsoleError carries the console view along with the problem so
// clients can render the rolled-back state.
func respondConsoleError(c *gin.Context, err error, view orderapp.View) {
	problem, ok := mapOrderError(err)
	if !ok {
		respondError(c, err)
		return
	}
	respondProblem(c, problem.WithExtension("view", fromConsoleView(view)))
}
