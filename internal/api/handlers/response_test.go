package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func TestRespondDomainErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantKind   string
	}{
		{err: fmt.Errorf("bad date: %w", domain.ErrValidation), wantStatus: http.StatusBadRequest, wantKind: domain.KindValidation},
		{err: fmt.Errorf("no schedule: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantKind: domain.KindNotFound},
		{err: fmt.Errorf("taken: %w", domain.ErrConflict), wantStatus: http.StatusConflict, wantKind: domain.KindConflict},
		{err: fmt.Errorf("notice: %w", domain.ErrPolicyViolation), wantStatus: http.StatusUnprocessableEntity, wantKind: domain.KindPolicyViolation},
		{err: errors.New("db is down"), wantStatus: http.StatusInternalServerError, wantKind: domain.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.wantKind, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondDomainError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, body.Error.Reason, "db is down")
			} else {
				assert.Equal(t, tt.err.Error(), body.Error.Reason)
			}
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dest))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(r, &dest))
	assert.Equal(t, "a", dest.Name)
}

func TestPathID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42", "bad": "-1"})

	id, err := PathID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathID(r, "bad")
	assert.Error(t, err)
	_, err = PathID(r, "missing")
	assert.Error(t, err)
}

func TestParseDateOrTime(t *testing.T) {
	d, err := ParseDateOrTime("2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Day())

	ts, err := ParseDateOrTime("2025-03-03T10:00:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 7, ts.UTC().Hour())

	_, err = ParseDateOrTime("03.03.2025")
	assert.Error(t, err)
}
