// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response carries a boolean "success" flag next to its named payload
// fields, which is the contract the logistics dashboard front-end parses:
//
//	{"success": true, "truck": {...}, "stockUpdates": [...]}
//	{"success": false, "message": "Truck not found", "code": "NOT_FOUND"}
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/ctxutil"
	"github.com/taibuivan/fruitlog/pkg/pagination"
)

// Body is the set of named payload fields merged into the success envelope.
type Body map[string]any

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with the body fields next to "success": true.
func OK(writer http.ResponseWriter, body Body) {
	JSON(writer, http.StatusOK, envelope(body))
}

// Created writes a 201 Created response with the body fields next to "success": true.
func Created(writer http.ResponseWriter, body Body) {
	JSON(writer, http.StatusCreated, envelope(body))
}

// Paginated writes a 200 OK response with the body fields and a "meta" block.
func Paginated(writer http.ResponseWriter, body Body, metadata pagination.Meta) {
	payload := envelope(body)
	payload["meta"] = metadata
	JSON(writer, http.StatusOK, payload)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Success: false,
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

// envelope copies body into a fresh map carrying "success": true.
func envelope(body Body) map[string]any {
	payload := make(map[string]any, len(body)+1)
	for key, value := range body {
		payload[key] = value
	}
	payload["success"] = true
	return payload
}
