package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wayfern/wayfern-backend/internal/services"
	"github.com/wayfern/wayfern-backend/internal/types"
)

// fakeTripService resolves access codes from a fixed map, mirroring the
// real service's normalization and lookup errors.
type fakeTripService struct {
	plans      map[string]*types.TripPlan
	detail     *services.TripPlanDetail
	createPlan *types.TripPlan
	createErr  error
	created    []services.CreateTripPlanInput
}

func (f *fakeTripService) Create(ctx context.Context, input services.CreateTripPlanInput) (*types.TripPlan, error) {
	f.created = append(f.created, input)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createPlan, nil
}

func (f *fakeTripService) FindByAccessCode(ctx context.Context, accessCode string) (*types.TripPlan, error) {
	code := strings.ToUpper(strings.TrimSpace(accessCode))
	if code == "" {
		return nil, &services.ValidationError{Fields: map[string]string{
			"access_code": "please enter an access code",
		}}
	}
	if plan, ok := f.plans[code]; ok {
		return plan, nil
	}
	return nil, services.ErrNotFound
}

func (f *fakeTripService) Detail(ctx context.Context, accessCode string) (*services.TripPlanDetail, error) {
	if _, err := f.FindByAccessCode(ctx, accessCode); err != nil {
		return nil, err
	}
	return f.detail, nil
}

func (f *fakeTripService) Status(ctx context.Context, accessCode string) (bool, error) {
	plan, err := f.FindByAccessCode(ctx, accessCode)
	if err != nil {
		return false, err
	}
	return !plan.HasGeneratedPayload(), nil
}

func newTripRouter(svc services.TripPlanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTripHandler(svc)
	r.POST("/api/trips", h.Create)
	r.GET("/api/trips/:code", h.Detail)
	r.GET("/api/trips/:code/status", h.Status)
	r.POST("/api/access", h.Find)
	r.GET("/api/access", h.Find)
	return r
}

func lisbonPlan() *types.TripPlan {
	return &types.TripPlan{
		ID:          uuid.New(),
		AccessCode:  "WANDER42",
		Destination: "Lisbon, Portugal",
		NumDays:     3,
		WakeTime:    "08:00",
		BedTime:     "22:00",
	}
}

func TestFindBrowserFormRedirects(t *testing.T) {
	plan := lisbonPlan()
	r := newTripRouter(&fakeTripService{plans: map[string]*types.TripPlan{plan.AccessCode: plan}})

	cases := []struct {
		name         string
		code         string
		wantLocation string
	}{
		{name: "known_code_redirects_to_trip", code: "wander42", wantLocation: "/trips/WANDER42"},
		{name: "empty_code_flashes_home", code: "", wantLocation: "/?flash=empty_code"},
		{name: "unknown_code_flashes_home", code: "NOPE1234", wantLocation: "/?flash=not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{"access_code": {tc.code}}
			req := httptest.NewRequest(http.MethodPost, "/api/access", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusFound)
			}
			if got := rec.Header().Get("Location"); got != tc.wantLocation {
				t.Fatalf("unexpected redirect: got=%q want=%q", got, tc.wantLocation)
			}
		})
	}
}

func TestFindAjaxReturnsJSON(t *testing.T) {
	plan := lisbonPlan()
	r := newTripRouter(&fakeTripService{plans: map[string]*types.TripPlan{plan.AccessCode: plan}})

	cases := []struct {
		name         string
		body         string
		contentType  string
		wantStatus   int
		wantOK       bool
		wantRedirect string
		wantError    string
	}{
		{
			name:         "form_post_returns_redirect_url",
			body:         "access_code=wander42",
			contentType:  "application/x-www-form-urlencoded",
			wantStatus:   http.StatusOK,
			wantOK:       true,
			wantRedirect: "/trips/WANDER42",
		},
		{
			name:         "json_post_returns_redirect_url",
			body:         `{"access_code": "WANDER42"}`,
			contentType:  "application/json",
			wantStatus:   http.StatusOK,
			wantOK:       true,
			wantRedirect: "/trips/WANDER42",
		},
		{
			name:        "empty_code_is_rejected",
			body:        "access_code=",
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusBadRequest,
			wantError:   "please enter an access code",
		},
		{
			name:        "unknown_code_is_not_found",
			body:        "access_code=NOPE1234",
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusNotFound,
			wantError:   "no itinerary matches that access code",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/access", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			req.Header.Set("X-Requested-With", "XMLHttpRequest")

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			var out struct {
				OK          bool   `json:"ok"`
				RedirectURL string `json:"redirect_url"`
				Error       string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.OK != tc.wantOK {
				t.Fatalf("unexpected ok: got=%v want=%v", out.OK, tc.wantOK)
			}
			if out.RedirectURL != tc.wantRedirect {
				t.Fatalf("unexpected redirect_url: got=%q want=%q", out.RedirectURL, tc.wantRedirect)
			}
			if tc.wantError != "" && out.Error != tc.wantError {
				t.Fatalf("unexpected error: got=%q want=%q", out.Error, tc.wantError)
			}
		})
	}
}

func TestFindGetRedirectsHome(t *testing.T) {
	r := newTripRouter(&fakeTripService{})

	req := httptest.NewRequest(http.MethodGet, "/api/access", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Fatalf("unexpected redirect: got=%q want=%q", got, "/")
	}
}

func TestCreateReturnsPlanWithAccessCode(t *testing.T) {
	svc := &fakeTripService{createPlan: lisbonPlan()}
	r := newTripRouter(svc)

	body := `{"destination": "Lisbon, Portugal", "num_days": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var out struct {
		Trip struct {
			AccessCode  string `json:"access_code"`
			Destination string `json:"destination"`
		} `json:"trip"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Trip.AccessCode != "WANDER42" {
		t.Fatalf("unexpected access code: got=%q", out.Trip.AccessCode)
	}
	if len(svc.created) != 1 || svc.created[0].Destination != "Lisbon, Portugal" || svc.created[0].NumDays != 3 {
		t.Fatalf("unexpected service input: %+v", svc.created)
	}
}

func TestCreateRejectsBadSubmissions(t *testing.T) {
	t.Run("malformed_body", func(t *testing.T) {
		r := newTripRouter(&fakeTripService{createPlan: lisbonPlan()})

		req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("validation_failure_lists_fields", func(t *testing.T) {
		svc := &fakeTripService{createErr: &services.ValidationError{Fields: map[string]string{
			"destination": "destination is required",
		}}}
		r := newTripRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
		}
		var out struct {
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Fields["destination"] != "destination is required" {
			t.Fatalf("unexpected fields: %v", out.Fields)
		}
	})
}

func TestStatusReportsGenerationState(t *testing.T) {
	pending := lisbonPlan()
	ready := lisbonPlan()
	ready.AccessCode = "READY123"
	ready.GeneratedPayload = []byte(`{"accommodation": null, "days": []}`)
	r := newTripRouter(&fakeTripService{plans: map[string]*types.TripPlan{
		pending.AccessCode: pending,
		ready.AccessCode:   ready,
	}})

	cases := []struct {
		name       string
		code       string
		wantStatus int
		wantValue  bool
	}{
		{name: "pending_plan_is_generating", code: "WANDER42", wantStatus: http.StatusOK, wantValue: true},
		{name: "ready_plan_is_not", code: "READY123", wantStatus: http.StatusOK, wantValue: false},
		{name: "unknown_code", code: "NOPE1234", wantStatus: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/trips/"+tc.code+"/status", nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus != http.StatusOK {
				return
			}
			var out struct {
				IsGenerating bool `json:"is_generating"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.IsGenerating != tc.wantValue {
				t.Fatalf("unexpected is_generating: got=%v want=%v", out.IsGenerating, tc.wantValue)
			}
		})
	}
}

func TestDetailReturnsJoinedView(t *testing.T) {
	plan := lisbonPlan()
	detail := &services.TripPlanDetail{Plan: plan, IsGenerating: true}
	r := newTripRouter(&fakeTripService{
		plans:  map[string]*types.TripPlan{plan.AccessCode: plan},
		detail: detail,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips/wander42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var out struct {
		Trip struct {
			AccessCode string `json:"access_code"`
		} `json:"trip"`
		IsGenerating bool `json:"is_generating"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Trip.AccessCode != "WANDER42" || !out.IsGenerating {
		t.Fatalf("unexpected detail: %+v", out)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/trips/NOPE1234", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status for unknown code: got=%d want=%d", rec.Code, http.StatusNotFound)
	}
}
