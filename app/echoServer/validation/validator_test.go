package validation_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"bookrent/app/echoServer/validation"
	"bookrent/model"
)

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(&model.CreateUserReq{Name: "Ann", Email: "not-an-email", Password: "123"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusBadRequest, he.Code)

	body, ok := he.Message.(echo.Map)
	require.True(t, ok)
	require.Equal(t, map[string]string{"email": "email", "password": "min=6"}, body["errors"])
}

func TestValidate_OK(t *testing.T) {
	age := 20
	require.NoError(t, validation.New().Validate(&model.CreateUserReq{
		Name: "Ann", Email: "ann@example.com", Password: "secret1", Age: &age,
	}))
}
