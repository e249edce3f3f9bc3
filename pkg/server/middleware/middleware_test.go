package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		header         string
		expectedStatus int
	}{
		{name: "disabled", secret: "", header: "", expectedStatus: http.StatusNoContent},
		{name: "valid token", secret: "s3cret", header: "Bearer s3cret", expectedStatus: http.StatusNoContent},
		{name: "wrong token", secret: "s3cret", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "missing header", secret: "s3cret", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", secret: "s3cret", header: "Basic s3cret", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/weekly_report", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			BearerAuth(tt.secret)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestLogger_AttachesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("handled")
	}))

	req := httptest.NewRequest(http.MethodPost, "/weekly_report", nil)
	req.RemoteAddr = "10.0.0.7:5123"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"method":"POST"`)
	assert.Contains(t, buf.String(), `"path":"/weekly_report"`)
	assert.Contains(t, buf.String(), `"remote_ip":"10.0.0.7:5123"`)
}

func TestLogger_LogsCompletedRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	Logger(&logger)(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), `"message":"request completed"`)
}
