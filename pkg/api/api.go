package api

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	kiterrors "github.com/dynohub/addons/kit/errors"
)

// oker is implemented by request bodies that validate themselves after
// decoding.
type oker interface {
	OK() error
}

type APIOptFn func(*API)

func WithLog(logger *zap.Logger) APIOptFn {
	return func(api *API) {
		api.logger = logger
	}
}

func WithErrFn(fn func(err error) (interface{}, int)) APIOptFn {
	return func(api *API) {
		api.errFn = fn
	}
}

func WithPrettyJSON(b bool) APIOptFn {
	return func(api *API) {
		api.prettyJSON = b
	}
}

// API provides the JSON decode/respond plumbing shared by every handler.
type API struct {
	logger *zap.Logger

	prettyJSON bool
	errFn      func(err error) (interface{}, int)
}

func New(opts ...APIOptFn) *API {
	api := API{
		logger:     zap.NewNop(),
		prettyJSON: true,
		errFn: func(err error) (interface{}, int) {
			code := kiterrors.ErrorCode(err)
			return ErrBody{
				Code: code,
				Msg:  err.Error(),
			}, kiterrors.CodeToStatus(code)
		},
	}
	for _, o := range opts {
		o(&api)
	}
	return &api
}

// DecodeJSON decodes r into v and, when v validates itself, runs that
// validation. Failures come back as EInvalid so the caller can pass them
// straight to Err.
func (a *API) DecodeJSON(r io.Reader, v interface{}) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return &kiterrors.Error{
			Code: kiterrors.EInvalid,
			Msg:  "failed to decode request body",
			Err:  err,
		}
	}

	if vv, ok := v.(oker); ok {
		if err := vv.OK(); err != nil {
			return &kiterrors.Error{
				Code: kiterrors.EInvalid,
				Err:  err,
			}
		}
	}

	return nil
}

// Respond writes v as JSON with the given status.
func (a *API) Respond(w http.ResponseWriter, status int, v interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	if a != nil && a.prettyJSON {
		enc.SetIndent("", "\t")
	}

	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		a.logger.Error("failed to encode response body", zap.Error(err))
	}
}

// Err writes err as a JSON error body with the status its code maps to.
func (a *API) Err(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	v, status := a.errFn(err)
	a.logger.Debug("api error encountered", zap.Error(err))
	a.Respond(w, status, v)
}

// ErrBody is the error shape every endpoint responds with.
type ErrBody struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}
