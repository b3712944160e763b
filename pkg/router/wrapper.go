package router

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"

	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
		ctx = xcontext.WithHTTPClient(ctx, r.httpClient)
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithResult(ctx)

		// The result holder is shared by every context derived below, so the
		// error or response set on a derived context is visible here.
		func(ctx context.Context) {
			if req.Method != method {
				xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", req.Method))
				return
			}

			request := new(Request)
			if err := bindRequest(req, method, request); err != nil {
				xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot bind the request"))
				return
			}

			for _, middleware := range r.befores {
				newCtx, err := middleware(ctx)
				if err != nil {
					xcontext.SetError(ctx, err)
					return
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			resp, err := handler(ctx, request)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			xcontext.SetResponse(ctx, resp)

			for _, middleware := range r.afters {
				if _, err := middleware(ctx); err != nil {
					xcontext.SetError(ctx, err)
					return
				}
			}
		}(ctx)

		handleResponse(ctx)

		for _, closer := range r.closers {
			closer(ctx)
		}
	}
}

func bindRequest(req *http.Request, method string, out any) error {
	if method == http.MethodGet {
		return bindQuery(req, out)
	}

	if req.Body == nil {
		return nil
	}

	defer req.Body.Close()
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(out); err != nil && err.Error() != "EOF" {
		return err
	}

	return nil
}

func bindQuery(req *http.Request, out any) error {
	value := reflect.ValueOf(out).Elem()
	for i := 0; i < value.NumField(); i++ {
		name := value.Type().Field(i).Tag.Get("json")
		if name == "" || name == "-" {
			continue
		}

		queryValue := req.URL.Query().Get(name)
		if queryValue == "" {
			continue
		}

		field := value.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(queryValue)

		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(queryValue, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)

		case reflect.Bool:
			b, err := strconv.ParseBool(queryValue)
			if err != nil {
				return err
			}
			field.SetBool(b)
		}
	}

	return nil
}
