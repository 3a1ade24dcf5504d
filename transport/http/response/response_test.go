package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourdesk/shared/constant"
	"tourdesk/shared/failure"
	"tourdesk/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details"`
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
		wantDetails bool
	}{
		{
			name:        "classified failure keeps its message",
			err:         failure.Conflict("period is full"),
			wantCode:    http.StatusConflict,
			wantMessage: "period is full",
		},
		{
			name:        "downstream failure keeps its message",
			err:         failure.BadGateway("failed to publish period event"),
			wantCode:    http.StatusBadGateway,
			wantMessage: "failed to publish period event",
		},
		{
			name:        "details are rendered",
			err:         failure.WithDetails(http.StatusUnprocessableEntity, "rooms over allocated", map[string]any{"over": 2}),
			wantCode:    http.StatusUnprocessableEntity,
			wantMessage: "rooms over allocated",
			wantDetails: true,
		},
		{
			name:        "plain error is masked",
			err:         errors.New("pq: relation \"periods\" does not exist"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: constant.ResponseErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Error)

			if tt.wantDetails {
				assert.InDelta(t, 2, body.Details["over"], 0)
			} else {
				assert.Nil(t, body.Details)
			}
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, response.ID{ID: "period-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"period-1"}}`, rec.Body.String())
}

func TestWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithPreparingShutdown(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"`+constant.ResponseErrorPrepareShutdown+`"}`, rec.Body.String())
}
