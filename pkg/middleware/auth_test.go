package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type session bool

func (s session) IsAuthenticated() bool { return bool(s) }

func serve(s SessionChecker) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", RequireSession(s), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	return rec
}

func TestRequireSession(t *testing.T) {
	rec := serve(session(true))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = serve(session(false))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Please sign in to continue.","kind":"auth_expired"}`, rec.Body.String())
}
