package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/export"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/users"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/vitals"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct{}

func (fakeUsers) Create(ctx context.Context, user *users.User) error { return nil }
func (fakeUsers) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return nil, users.ErrUserNotFound
}

type fakePatients struct {
	patients []patient.Patient
}

func (f *fakePatients) LastPatientID(ctx context.Context) (string, error) {
	if len(f.patients) == 0 {
		return "", nil
	}
	return f.patients[len(f.patients)-1].PatientID, nil
}

func (f *fakePatients) Create(ctx context.Context, p *patient.Patient) error {
	p.ID = primitive.NewObjectID()
	f.patients = append(f.patients, *p)
	return nil
}

func (f *fakePatients) ListByUser(ctx context.Context, userID string, limit int64) ([]patient.Patient, error) {
	return f.patients, nil
}

func (f *fakePatients) GetByPatientID(ctx context.Context, patientID string) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.PatientID == patientID {
			found := p
			return &found, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

type fakeVitals struct {
	updated []primitive.ObjectID
}

func (f *fakeVitals) Create(ctx context.Context, v *vitals.Vital) error {
	v.ID = primitive.NewObjectID()
	return nil
}
func (f *fakeVitals) CreateMany(ctx context.Context, vs []*vitals.Vital) (int, error) {
	return len(vs), nil
}
func (f *fakeVitals) ListByPatient(ctx context.Context, patientID string, limit int64) ([]vitals.Vital, error) {
	return []vitals.Vital{}, nil
}
func (f *fakeVitals) Update(ctx context.Context, id primitive.ObjectID, req vitals.VitalRequest) error {
	f.updated = append(f.updated, id)
	return nil
}
func (f *fakeVitals) Delete(ctx context.Context, id primitive.ObjectID) error {
	return vitals.ErrVitalNotFound
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	requests []recordedRequest
}

func (f *fakeHTTPMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: statusCode})
}

type testRouter struct {
	handler  http.Handler
	patients *fakePatients
	vitals   *fakeVitals
	metrics  *fakeHTTPMetrics
}

func newTestRouter(t *testing.T, ping func(ctx context.Context) error) *testRouter {
	t.Helper()
	logger := zerolog.Nop()

	patients := &fakePatients{}
	vitalRepo := &fakeVitals{}
	metrics := &fakeHTTPMetrics{}

	patientService := patient.NewService(patients, nil, nil, logger)
	vitalService := vitals.NewService(vitalRepo, nil, nil, logger)

	handler := NewRouter(Handlers{
		Users:    users.NewHandler(users.NewService(fakeUsers{}, nil, nil, logger), logger),
		Patients: patient.NewHandler(patientService, logger),
		Vitals:   vitals.NewHandler(vitalService, logger),
		Export:   export.NewHandler(export.NewService(patientService, vitalService, nil, nil, logger), logger),
		Ping:     ping,
	}, Options{APIPrefix: "/api", Logger: logger, Metrics: metrics})

	return &testRouter{handler: handler, patients: patients, vitals: vitalRepo, metrics: metrics}
}

func (tr *testRouter) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)
	return rr
}

func TestRouter_NextIDIsNotAPatientID(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodGet, "/api/patients/next-id", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	if body["nextId"] != "PT001" {
		t.Errorf("Expected nextId PT001, got %v", body)
	}
}

func TestRouter_PatientLifecycle(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodPost, "/api/patients", map[string]interface{}{
		"userId": "u1", "age": 30, "gender": "female", "weight": 60, "heightCm": 160, "monitoringMethod": "probe",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	if rr := tr.do(http.MethodGet, "/api/patients/PT001", nil); rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for PT001, got %d", rr.Code)
	}
	if rr := tr.do(http.MethodGet, "/api/patients/PT002", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for PT002, got %d", rr.Code)
	}
	if rr := tr.do(http.MethodGet, "/api/patients?userId=u1", nil); rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for list, got %d", rr.Code)
	}
}

func TestRouter_ExportRouteIsNotAVitalsList(t *testing.T) {
	tr := newTestRouter(t, nil)
	tr.patients.Create(context.Background(), &patient.Patient{PatientID: "PT001", Gender: "male"})

	rr := tr.do(http.MethodGet, "/api/vitals/export/PT001", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("Expected xlsx content type, got %s", ct)
	}

	if rr := tr.do(http.MethodGet, "/api/vitals/export/PT999", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown patient, got %d", rr.Code)
	}

	rr = tr.do(http.MethodGet, "/api/vitals/PT001", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "[]\n" {
		t.Errorf("Expected empty vitals list, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRouter_VitalsByMethod(t *testing.T) {
	tr := newTestRouter(t, nil)
	id := primitive.NewObjectID().Hex()

	rr := tr.do(http.MethodPut, "/api/vitals/"+id, map[string]string{"patientId": "PT001", "timestamp": "t"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on update, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(tr.vitals.updated) != 1 || tr.vitals.updated[0].Hex() != id {
		t.Errorf("Expected update for %s, got %v", id, tr.vitals.updated)
	}

	if rr := tr.do(http.MethodDelete, "/api/vitals/"+id, nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on delete, got %d", rr.Code)
	}

	rr = tr.do(http.MethodPost, "/api/vitals/bulk", []map[string]string{{"patientId": "PT001", "timestamp": "a"}})
	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201 on bulk, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRouter_AuthRoutes(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.c", "password": "x"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}

	rr = tr.do(http.MethodPost, "/api/auth/signup", map[string]string{"fullName": "A", "email": "a@b.c", "password": "x"})
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRouter_PrefixIsRequired(t *testing.T) {
	tr := newTestRouter(t, nil)

	if rr := tr.do(http.MethodGet, "/patients/next-id", nil); rr.Code != http.StatusNotFound {
		t.Errorf("Expected unprefixed API route to 404, got %d", rr.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	t.Run("Store reachable", func(t *testing.T) {
		tr := newTestRouter(t, func(ctx context.Context) error { return nil })
		rr := tr.do(http.MethodGet, "/health", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rr.Code)
		}
		var body healthResponse
		json.NewDecoder(rr.Body).Decode(&body)
		if body.Status != "ok" || body.Database != "ok" {
			t.Errorf("Unexpected health body %+v", body)
		}
	})

	t.Run("Store down", func(t *testing.T) {
		tr := newTestRouter(t, func(ctx context.Context) error { return errors.New("no reachable servers") })
		rr := tr.do(http.MethodGet, "/health", nil)
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", rr.Code)
		}
	})
}

func TestRouter_CORSPreflight(t *testing.T) {
	tr := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/vitals/abc", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8081" {
		t.Errorf("Expected origin to be echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Expected credentials allowed, got %q", got)
	}
}

func TestRouter_CORSPreflight_AnyRequestedHeader(t *testing.T) {
	tr := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/vitals", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-client-version")
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rr.Code)
	}
	got := rr.Header().Get("Access-Control-Allow-Headers")
	if !strings.Contains(got, "X-Client-Version") || !strings.Contains(got, "Content-Type") {
		t.Errorf("Expected requested headers to be allowed, got %q", got)
	}
}

func TestRouter_CORSOnSimpleRequest(t *testing.T) {
	tr := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/next-id", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.org" {
		t.Errorf("Expected origin to be echoed, got %q", got)
	}
}

func TestRouter_RequestIDAndMetrics(t *testing.T) {
	tr := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/PT404", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("Expected request id to be echoed, got %q", got)
	}

	rr = tr.do(http.MethodGet, "/api/patients/next-id", nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated request id")
	}

	if len(tr.metrics.requests) != 2 {
		t.Fatalf("Expected 2 recorded requests, got %d", len(tr.metrics.requests))
	}
	first := tr.metrics.requests[0]
	if first.route != "/api/patients/{patientId}" || first.status != http.StatusNotFound {
		t.Errorf("Expected route template and 404, got %+v", first)
	}
}
