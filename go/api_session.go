package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identityports "github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
	orderapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/dairy-storefront/internal/shared/errors"
)

// SessionAPI issues and revokes admin sessions.
type SessionAPI struct {
	service  identityports.Service
	consoles *orderapp.Consoles
}

func NewSessionAPI(service identityports.Service, consoles *orderapp.Consoles) SessionAPI {
	return SessionAPI{service: service, consoles: consoles}
}

// Post /v1/session/login
func (api *SessionAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, badRequest(err))
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainSession(session))
}

// Post /v1/session/logout
// Forgets the token and unmounts its console
func (api *SessionAPI) Logout(c *gin.Context) {
	token := bearerToken(c)
	if err := api.service.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	if api.consoles != nil {
		api.consoles.Close(token)
	}
	c.Status(http.StatusNoContent)
}

func badRequest(err error) apierrors.ProblemDetail {
	return apierrors.ErrBadRequest.WithDetail(err.Error())
}
