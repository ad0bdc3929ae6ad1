package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

func TestFromError_MapsTaxonomy(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantDetails bool
	}{
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: from is required", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid input: from is required",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: session abc", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "not found: session abc",
		},
		{
			name:        "upstream",
			err:         fmt.Errorf("%w: gateway returned 502", domain.ErrUpstream),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "upstream dependency failed",
			wantDetails: true,
		},
		{
			name:       "internal",
			err:        errors.New("nil pointer somewhere"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			c := e.NewContext(req, rec)

			if err := FromError(c, tc.err); err != nil {
				t.Fatalf("FromError returned error: %v", err)
			}

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}

			if body.Success {
				t.Errorf("expected Success=false")
			}
			if body.Error != tc.wantError {
				t.Errorf("expected Error=%q, got %q", tc.wantError, body.Error)
			}
			if tc.wantDetails && body.Details == "" {
				t.Errorf("expected Details to be set")
			}
			if !tc.wantDetails && body.Details != "" {
				t.Errorf("expected no Details, got %q", body.Details)
			}
		})
	}
}

func TestHTTPErrorHandler_WritesJSONEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	c := e.NewContext(req, rec)

	HTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Success || body.Error != "Not Found" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
