package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/probe", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/probe", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespond_SetsContentTypeAndInstance(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		Respond(c, ErrConflict.WithDetail("busy"))
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "/v1/probe", problem.Instance)
	require.Equal(t, "busy", problem.Detail)
}

func TestRespondError_UsesMappersThenInternal(t *testing.T) {
	sentinel := stderrors.New("store down")
	responder := NewResponder("https://storefront.example", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, sentinel) {
			return ErrUpstream, true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, sentinel) })
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "https://storefront.example"+TypeUpstream, problem.Type)

	rec, problem = serve(t, func(c *gin.Context) { responder.RespondError(c, stderrors.New("boom")) })
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, problem.Detail)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	_ = ErrConflict.WithExtension("view", 1)
	require.Nil(t, ErrConflict.Extensions)
}
