package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_JSON_Get_dottedKey(t *testing.T) {
	body := JSON{
		"fields": map[string]any{
			"project": map[string]any{"key": "BUG"},
			"labels":  []any{"bugsnap"},
		},
	}

	key, err := body.GetString("fields.project.key")
	require.NoError(t, err)
	require.Equal(t, "BUG", key)

	labels, err := body.GetArray("fields.labels")
	require.NoError(t, err)
	require.Equal(t, Array{"bugsnap"}, labels)

	_, err = body.GetString("fields.project.missing")
	require.Error(t, err)
}

func Test_JSON_GetInt(t *testing.T) {
	body := JSON{"total": float64(3), "fraction": 1.5}

	total, err := body.GetInt("total")
	require.NoError(t, err)
	require.Equal(t, 3, total)

	_, err = body.GetInt("fraction")
	require.Error(t, err)
}

func Test_Parameter_Encode(t *testing.T) {
	params := Parameter{
		"grant_type": "refresh_token",
		"code":       "a b+c",
	}

	require.Equal(t, "code=a%20b%2Bc&grant_type=refresh_token", params.Encode())
}

func Test_Response_IsAuthFailure(t *testing.T) {
	require.True(t, (&Response{Code: http.StatusUnauthorized}).IsAuthFailure())
	require.True(t, (&Response{Code: http.StatusForbidden}).IsAuthFailure())

	// Rate limits and server errors are not auth failures, a retry with a
	// fresh token would not help there.
	require.False(t, (&Response{Code: http.StatusTooManyRequests}).IsAuthFailure())
	require.False(t, (&Response{Code: http.StatusInternalServerError}).IsAuthFailure())
	require.False(t, (&Response{Code: http.StatusNotFound}).IsAuthFailure())
}
