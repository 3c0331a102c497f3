package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/dugoutlabs/ballstats/internal/usecase"
)

func TestWriteSuccess_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	writeSuccess(t.Context(), recorder, http.StatusOK, map[string]string{"status": "ok"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("unexpected content type: %q", contentType)
	}

	var envelope struct {
		APIVersion string            `json:"apiVersion"`
		Data       map[string]string `json:"data"`
	}
	if err := sonic.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected apiVersion: %q", envelope.APIVersion)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
}

func TestWriteError_Envelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	writeError(t.Context(), recorder, fmt.Errorf("%w: player with ID 42 not found", usecase.ErrNotFound))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}

	var envelope struct {
		Error *googleErrorBody `json:"error"`
	}
	if err := sonic.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error == nil {
		t.Fatalf("expected error body")
	}
	if envelope.Error.Code != http.StatusNotFound || envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Reason != "notFound" {
		t.Fatalf("unexpected error items: %+v", envelope.Error.Errors)
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		httpStatus int
		reason     string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput"},
		{"already exists", usecase.ErrAlreadyExists, http.StatusBadRequest, "alreadyExists"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "notFound"},
		{"upstream unavailable", usecase.ErrUpstreamUnavailable, http.StatusInternalServerError, "upstreamUnavailable"},
		{"invalid upstream data", usecase.ErrInvalidUpstreamData, http.StatusInternalServerError, "invalidUpstreamData"},
		{"store inconsistency", usecase.ErrStoreInconsistency, http.StatusInternalServerError, "storeInconsistency"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(fmt.Errorf("wrapped: %w", tc.err))
			if mapped.HTTPStatus != tc.httpStatus {
				t.Fatalf("unexpected status: %d", mapped.HTTPStatus)
			}
			if mapped.Reason != tc.reason {
				t.Fatalf("unexpected reason: %q", mapped.Reason)
			}
		})
	}
}
