package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/ideabox-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondWithErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ideas", nil)

	RespondWithError(c, stderrors.New("mongo: socket closed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "internal server error", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "socket closed")
}

func TestRespondWithErrorUsesAppErrorStatus(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ideas/1", nil)

	RespondWithError(c, errors.NewNotFound("Idea", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Idea not found")
}

func TestBindErrorListsFields(t *testing.T) {
	type payload struct {
		Title string `json:"title" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}
	v := validator.New()
	err := v.Struct(payload{Email: "nope"})
	require.Error(t, err)

	appErr := BindError(err)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
	assert.Len(t, appErr.Details, 2)
	assert.Contains(t, appErr.Details, "Title is required")
	assert.Contains(t, appErr.Details, "Email must be a valid email")
}
