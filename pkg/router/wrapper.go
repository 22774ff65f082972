package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.newRequestContext(req, w)

		if req.Method != method {
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Method not allowed"))
			return
		}

		var parsed Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(req, &parsed)
		case http.MethodPost:
			err = bindJSON(req.Body, &parsed)
		}
		if err != nil {
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			return
		}

		resp, err := func() (*Response, error) {
			for _, middleware := range r.befores {
				ctx, err = middleware(ctx)
				if err != nil {
					return nil, err
				}
			}

			resp, err := handler(ctx, &parsed)
			if err != nil {
				return nil, err
			}

			for _, middleware := range r.afters {
				ctx, err = middleware(ctx)
				if err != nil {
					return nil, err
				}
			}

			return resp, nil
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(ctx, w, err)
		} else {
			ctx = xcontext.WithResponse(ctx, resp)
			writeResponse(ctx, w, resp)
		}

		for _, closer := range r.closers {
			closer(ctx)
		}
	}
}

func bindJSON(body io.Reader, target any) error {
	if err := json.NewDecoder(body).Decode(target); err != nil && err != io.EOF {
		return err
	}

	return nil
}

// bindQuery fills target's string, int, and bool fields from URL query
// parameters, matching on the json tag.
func bindQuery(req *http.Request, target any) error {
	values := req.URL.Query()
	elem := reflect.ValueOf(target).Elem()
	for i := 0; i < elem.NumField(); i++ {
		tag, ok := elem.Type().Field(i).Tag.Lookup("json")
		if !ok {
			continue
		}

		value := values.Get(tag)
		if value == "" {
			continue
		}

		field := elem.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			field.SetBool(b)
		}
	}

	return nil
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	xcontext.Logger(ctx).Debugf("Request failed: %v", err)
	resp := newErrorResponse(err)
	writeJSON(ctx, w, httpStatus(resp.Code), resp)
}

func writeResponse(ctx context.Context, w http.ResponseWriter, data any) {
	writeJSON(ctx, w, http.StatusOK, newResponse(data))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, resp any) {
	b, err := json.Marshal(resp)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal the response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}
