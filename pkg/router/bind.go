package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

// bind decodes the query string for GET requests and the JSON body for POST
// requests. Query values are matched against json tags. Multipart bodies are
// left untouched for the handler to read. Fields tagged with session are
// filled from the request session afterwards.
func bind(ctx context.Context, req *http.Request, method string, obj any) error {
	switch method {
	case http.MethodGet:
		if err := bindQuery(req, obj); err != nil {
			return err
		}
	case http.MethodPost:
		if req.Body != nil && !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
			err := json.NewDecoder(req.Body).Decode(obj)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
		}
	default:
		return errors.New("unsupported method")
	}

	return bindSession(ctx, req, obj)
}

// bindSession sets string fields tagged `session:"key"` or
// `session:"key,delete"` from the session store in ctx. Deleted keys are
// saved back immediately so a nonce cannot be answered twice.
func bindSession(ctx context.Context, req *http.Request, obj any) error {
	val := reflect.ValueOf(obj)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return nil
	}

	val = val.Elem()
	typ := val.Type()

	var session interface {
		Save(*http.Request, http.ResponseWriter) error
	}
	var values map[any]any
	deleted := false

	for i := 0; i < typ.NumField(); i++ {
		tag, ok := typ.Field(i).Tag.Lookup("session")
		if !ok {
			continue
		}

		if values == nil {
			store := xcontext.SessionStore(ctx)
			if store == nil {
				return errors.New("no session store")
			}

			s, err := store.Get(req, xcontext.Configs(ctx).Session.Name)
			if err != nil {
				return err
			}
			session, values = s, s.Values
		}

		key, opt, _ := strings.Cut(tag, ",")
		if v, ok := values[key].(string); ok && val.Field(i).Kind() == reflect.String {
			val.Field(i).SetString(v)
		}

		if opt == "delete" {
			delete(values, key)
			deleted = true
		}
	}

	if deleted {
		if w := xcontext.HTTPWriter(ctx); w != nil {
			return session.Save(req, w)
		}
	}

	return nil
}

func bindQuery(req *http.Request, obj any) error {
	values := map[string]any{}
	for k, v := range req.URL.Query() {
		if len(v) == 1 {
			values[k] = v[0]
		} else {
			values[k] = v
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           obj,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}
