//go:build integration

package e2e

import (
	"net/http/httptest"
	"testing"

	httpserver "github.com/WailSalutem-Health-Care/vitals-service/internal/http"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/testutil"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	DB            *mongo.Database
	MockPublisher *testutil.MockPublisher
}

// SetupE2ETest starts the real router on a fresh MongoDB database with an
// in-memory publisher. Everything is torn down when the test ends.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	database := testutil.SetupTestDB(t)
	mockPublisher := testutil.NewMockPublisher()

	router := httpserver.SetupRouter(database.Client(), database, mockPublisher, nil, httpserver.Options{
		APIPrefix: "/api",
		Logger:    zerolog.Nop(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:        server,
		DB:            database,
		MockPublisher: mockPublisher,
	}
}

// NewClient creates a new HTTP test client for this server
func (ts *TestServer) NewClient() *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL)
}

type patientBody struct {
	ID           string  `json:"id"`
	PatientID    string  `json:"patientId"`
	UserID       string  `json:"userId"`
	HeightCm     float64 `json:"heightCm"`
	HeightFeet   int     `json:"heightFeet"`
	HeightInches float64 `json:"heightInches"`
}

// createPatient registers a patient for userID and returns the decoded body
func (ts *TestServer) createPatient(t *testing.T, userID string) patientBody {
	t.Helper()

	resp := ts.NewClient().POST(t, "/api/patients", map[string]interface{}{
		"userId":           userID,
		"age":              72,
		"gender":           "female",
		"weight":           58.5,
		"heightCm":         162,
		"hasSepsis":        true,
		"monitoringMethod": "probe",
	})
	testutil.AssertStatusCode(t, resp, 201)

	var p patientBody
	testutil.DecodeJSON(t, resp, &p)
	return p
}
