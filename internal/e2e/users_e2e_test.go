//go:build integration

package e2e

import (
	"net/http"
	"testing"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/testutil"
)

func TestE2E_SignupAndLogin(t *testing.T) {
	ts := SetupE2ETest(t)
	client := ts.NewClient()

	signup := map[string]string{"fullName": "Nurse Joy", "email": "joy@example.com", "password": "pokecenter"}
	resp := client.POST(t, "/api/auth/signup", signup)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var registered struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	testutil.DecodeJSON(t, resp, &registered)
	if registered.ID == "" || registered.FullName != "Nurse Joy" {
		t.Errorf("Unexpected signup body %+v", registered)
	}
	if registered.Password != "" {
		t.Error("Expected password never to be returned")
	}
	ts.MockPublisher.AssertEventCount(t, messaging.EventUserRegistered, 1)

	var event messaging.UserRegisteredEvent
	ts.MockPublisher.DecodeLast(t, messaging.EventUserRegistered, &event)
	if event.Data.UserID != registered.ID {
		t.Errorf("Expected event for %s, got %s", registered.ID, event.Data.UserID)
	}

	resp = client.POST(t, "/api/auth/login", map[string]string{"email": "joy@example.com", "password": "pokecenter"})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var loggedIn struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &loggedIn)
	if loggedIn.ID != registered.ID {
		t.Errorf("Expected login to return %s, got %s", registered.ID, loggedIn.ID)
	}
}

func TestE2E_SignupDuplicateEmail(t *testing.T) {
	ts := SetupE2ETest(t)
	client := ts.NewClient()

	body := map[string]string{"fullName": "A", "email": "dup@example.com", "password": "x"}
	testutil.AssertStatusCode(t, client.POST(t, "/api/auth/signup", body), http.StatusOK)

	resp := client.POST(t, "/api/auth/signup", body)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	var detail struct {
		Detail string `json:"detail"`
	}
	testutil.DecodeJSON(t, resp, &detail)
	if detail.Detail != "Email already registered" {
		t.Errorf("Expected 'Email already registered', got %q", detail.Detail)
	}
}

func TestE2E_LoginRejected(t *testing.T) {
	ts := SetupE2ETest(t)
	client := ts.NewClient()

	testutil.AssertStatusCode(t, client.POST(t, "/api/auth/signup",
		map[string]string{"fullName": "A", "email": "a@example.com", "password": "right"}), http.StatusOK)

	testutil.AssertStatusCode(t, client.POST(t, "/api/auth/login",
		map[string]string{"email": "a@example.com", "password": "wrong"}), http.StatusUnauthorized)
	testutil.AssertStatusCode(t, client.POST(t, "/api/auth/login",
		map[string]string{"email": "ghost@example.com", "password": "right"}), http.StatusUnauthorized)
	testutil.AssertStatusCode(t, client.POST(t, "/api/auth/login",
		map[string]string{"email": "a@example.com", "password": ""}), http.StatusUnauthorized)
}
