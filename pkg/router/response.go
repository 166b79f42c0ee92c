package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/logger"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) (int, response) {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return errx.HTTPStatus(), response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return errorx.Unknown.HTTPStatus(), response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

func writeResponse(l logger.Logger, w http.ResponseWriter, data any) {
	if err := WriteJson(w, http.StatusOK, newResponse(data)); err != nil {
		l.Errorf("Cannot write the response: %v", err)
	}
}

func writeError(l logger.Logger, w http.ResponseWriter, err error) {
	status, resp := newErrorResponse(err)
	if err := WriteJson(w, status, resp); err != nil {
		l.Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
