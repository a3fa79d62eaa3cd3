// Package errors maps the service's error taxonomy (validation, not-found,
// auth-invalid, protocol-violation, upstream-failure, store-failure) onto
// wire-facing HTTP and websocket error responses.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"triviaduel-backend/api"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

var errorCodeHTTPStatusCode = map[api.HTTPErrorCode]int{
	api.MissingURLQueryHTTPCode:     http.StatusBadRequest,
	api.InternalServerErrorHTTPCode: http.StatusInternalServerError,
	api.InvalidTokenErrorHTTPCode:   http.StatusForbidden,
	api.InvalidTokenClaimHTTPCode:   http.StatusForbidden,
	api.UnauthorizedErrorHTTPCode:   http.StatusUnauthorized,
	api.ValidationErrorHTTPCode:     http.StatusBadRequest,
	api.LobbyNotFoundHTTPCode:       http.StatusNotFound,
	api.LobbyFullHTTPCode:           http.StatusConflict,
	api.LobbyAlreadyExistsHTTPCode:  http.StatusConflict,
	api.StoreFailureHTTPCode:        http.StatusServiceUnavailable,
}

func WriteHTTPError(ctx context.Context, w http.ResponseWriter, err error) {
	res := api.HTTPErrorData{}

	statusCode := http.StatusInternalServerError

	apiErr := &api.ErrorData[api.HTTPErrorCode]{}
	if err != nil && errors.As(err, apiErr) {
		res.Code = apiErr.Code
		res.Message = apiErr.Message
		res.Extra = apiErr.Extra
		if code, ok := errorCodeHTTPStatusCode[apiErr.Code]; ok {
			statusCode = code
		}
	} else {
		res.Code = api.InternalServerErrorHTTPCode
		res.Message = "unexpected error"
	}

	slog.ErrorContext(ctx, "http error",
		slog.Any("error", err),
		slog.Any("error_code", res.Code),
		slog.Int("status_code", statusCode))

	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.ErrorContext(ctx, "http error: failed to encode response", slog.Any("error", err))
	}
}

func WriteWebsocketError(ctx context.Context, conn *websocket.Conn, err error) {
	res := api.Response[api.WebsocketErrorData]{
		Type: api.ResponseTypeError,
	}

	apiErr := &api.ErrorData[api.WebsocketErrorCode]{}
	if err != nil && errors.As(err, apiErr) {
		res.Data.Request = apiErr.Request
		res.Data.Code = apiErr.Code
		res.Data.Message = apiErr.Message
		res.Data.Extra = apiErr.Extra
	} else {
		res.Data.Code = api.InternalServerErrorCode
		res.Data.Message = "unexpected error"
	}

	slog.ErrorContext(ctx, "ws error",
		slog.Any("error", err),
		slog.Any("error_code", res.Data.Code))

	if err := wsjson.Write(ctx, conn, res); err != nil {
		slog.ErrorContext(ctx, "ws error: failed to write response", slog.Any("error", err))
	}
}

func InvalidRequestError(err error, req api.RequestType, cause string) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.InvalidRequestCode,
		Message: "invalid request",
		Extra: struct {
			Cause string `json:"cause"`
		}{
			Cause: cause,
		},
		Err: err,
	}
}

func ProtocolViolationError(req api.RequestType, cause string) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.ProtocolViolationCode,
		Message: "protocol violation",
		Extra: struct {
			Cause string `json:"cause"`
		}{
			Cause: cause,
		},
	}
}

func UnauthorizedRequestError(req api.RequestType, cause string) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.UnauthorizedErrorCode,
		Message: "unauthorized request",
		Extra: struct {
			Cause string `json:"cause"`
		}{
			Cause: cause,
		},
	}
}

func UpstreamFailureError(err error, req api.RequestType) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.UpstreamFailureCode,
		Message: "question provider unavailable",
		Err:     err,
	}
}

func StoreFailureError(err error, req api.RequestType) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.StoreFailureCode,
		Message: "lobby store unavailable",
		Err:     err,
	}
}

func LobbyNotFoundWSError(req api.RequestType, lobbyName string) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.LobbyNotFoundCode,
		Message: "lobby not found",
		Extra: struct {
			LobbyName string `json:"lobby_name"`
		}{
			LobbyName: lobbyName,
		},
	}
}

func LobbyFullWSError(req api.RequestType, lobbyName string) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.LobbyFullCode,
		Message: "lobby is full",
		Extra: struct {
			LobbyName string `json:"lobby_name"`
		}{
			LobbyName: lobbyName,
		},
	}
}

func MissingURLQueryError(query string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.MissingURLQueryHTTPCode,
		Message: "missing url query",
		Extra: struct {
			Query string `json:"query"`
		}{
			Query: query,
		},
	}
}

func UnauthorizedError(cause string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.UnauthorizedErrorHTTPCode,
		Message: "unauthorized",
		Extra: struct {
			Cause string `json:"cause"`
		}{
			Cause: cause,
		},
	}
}

func ValidationError(fields map[string]string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.ValidationErrorHTTPCode,
		Message: "invalid input",
		Extra:   fields,
	}
}

func LobbyNotFoundError(lobbyName string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.LobbyNotFoundHTTPCode,
		Message: "lobby not found",
		Extra: struct {
			LobbyName string `json:"lobby_name"`
		}{
			LobbyName: lobbyName,
		},
	}
}

func LobbyFullError(lobbyName string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.LobbyFullHTTPCode,
		Message: "lobby is full",
		Extra: struct {
			LobbyName string `json:"lobby_name"`
		}{
			LobbyName: lobbyName,
		},
	}
}

func LobbyAlreadyExistsError(lobbyName string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.LobbyAlreadyExistsHTTPCode,
		Message: "lobby already exists",
		Extra: struct {
			LobbyName string `json:"lobby_name"`
		}{
			LobbyName: lobbyName,
		},
	}
}

func HTTPInternalServerError(err error) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.InternalServerErrorHTTPCode,
		Message: "internal server error",
		Err:     err,
	}
}

func InternalServerError(err error, req api.RequestType) api.ErrorData[api.WebsocketErrorCode] {
	return api.ErrorData[api.WebsocketErrorCode]{
		Request: req,
		Code:    api.InternalServerErrorCode,
		Message: "internal server error",
		Err:     err,
	}
}

func InvalidTokenError(err error, req api.RequestType) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Request: req,
		Code:    api.InvalidTokenErrorHTTPCode,
		Message: "invalid token",
		Err:     err,
	}
}

func InvalidTokenClaimError(err error, req api.RequestType, claim string) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Request: req,
		Code:    api.InvalidTokenClaimHTTPCode,
		Message: "invalid token claim",
		Extra: struct {
			Claim string `json:"claim"`
		}{
			Claim: claim,
		},
		Err: err,
	}
}

func StoreFailureHTTPError(err error) api.ErrorData[api.HTTPErrorCode] {
	return api.ErrorData[api.HTTPErrorCode]{
		Code:    api.StoreFailureHTTPCode,
		Message: "lobby store unavailable",
		Err:     err,
	}
}
