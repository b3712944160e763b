package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newSuccessResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return response{Code: int64(errx.Code), Error: errx.Message}
}

func handleResponse(ctx context.Context) {
	var resp response
	if err := xcontext.Error(ctx); err != nil {
		resp = newErrorResponse(err)
	} else {
		resp = newSuccessResponse(xcontext.Response(ctx))
	}

	writer := xcontext.HTTPWriter(ctx)
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(httpStatus(resp))

	if err := json.NewEncoder(writer).Encode(resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode the response: %v", err)
	}
}

func httpStatus(resp response) int {
	switch errorx.Code(resp.Code) {
	case 0:
		return http.StatusOK
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Internal, errorx.Unavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
