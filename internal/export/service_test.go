package export

import (
	"context"
	"errors"
	"testing"

	"github.com/WailSalutem-Health-Care/vitals-service/internal/patient"
	"github.com/WailSalutem-Health-Care/vitals-service/internal/vitals"
	"github.com/rs/zerolog"
)

type mockPatients struct {
	getPatientFunc func(ctx context.Context, patientID string) (*patient.Patient, error)
}

func (m *mockPatients) GetPatient(ctx context.Context, patientID string) (*patient.Patient, error) {
	if m.getPatientFunc != nil {
		return m.getPatientFunc(ctx, patientID)
	}
	return nil, errors.New("not implemented")
}

type mockVitals struct {
	listVitalsFunc func(ctx context.Context, patientID string) ([]vitals.Vital, error)
}

func (m *mockVitals) ListVitals(ctx context.Context, patientID string) ([]vitals.Vital, error) {
	if m.listVitalsFunc != nil {
		return m.listVitalsFunc(ctx, patientID)
	}
	return nil, errors.New("not implemented")
}

type mockPublisher struct {
	keys []string
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	m.keys = append(m.keys, routingKey)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockMetrics struct {
	rows []int
}

func (m *mockMetrics) RecordExport(ctx context.Context, rows int) {
	m.rows = append(m.rows, rows)
}

func foundPatient() *mockPatients {
	return &mockPatients{
		getPatientFunc: func(ctx context.Context, patientID string) (*patient.Patient, error) {
			p := testPatient()
			p.PatientID = patientID
			return p, nil
		},
	}
}

func TestExportVitals(t *testing.T) {
	lister := &mockVitals{
		listVitalsFunc: func(ctx context.Context, patientID string) ([]vitals.Vital, error) {
			return []vitals.Vital{{Timestamp: "a"}, {Timestamp: "b"}}, nil
		},
	}
	publisher := &mockPublisher{}
	metrics := &mockMetrics{}
	service := NewService(foundPatient(), lister, publisher, metrics, zerolog.Nop())

	wb, err := service.ExportVitals(context.Background(), "PT003")
	if err != nil {
		t.Fatalf("ExportVitals failed: %v", err)
	}
	if wb.Filename != "PT003_vitals.xlsx" {
		t.Errorf("Unexpected filename %s", wb.Filename)
	}
	if wb.Rows != 2 {
		t.Errorf("Expected 2 rows, got %d", wb.Rows)
	}

	f := openWorkbook(t, wb.Content)
	if got := cellValue(t, f, "B1"); got != "PT003" {
		t.Errorf("Expected patient id in B1, got %q", got)
	}
	if got := cellValue(t, f, "A9"); got != "2" {
		t.Errorf("Expected second numbered row, got %q", got)
	}

	if len(publisher.keys) != 1 || publisher.keys[0] != "vitals.exported" {
		t.Errorf("Expected vitals.exported event, got %v", publisher.keys)
	}
	if len(metrics.rows) != 1 || metrics.rows[0] != 2 {
		t.Errorf("Expected export metric with 2 rows, got %v", metrics.rows)
	}
}

func TestExportVitals_UnknownPatient(t *testing.T) {
	listed := false
	patients := &mockPatients{
		getPatientFunc: func(ctx context.Context, patientID string) (*patient.Patient, error) {
			return nil, patient.ErrPatientNotFound
		},
	}
	lister := &mockVitals{
		listVitalsFunc: func(ctx context.Context, patientID string) ([]vitals.Vital, error) {
			listed = true
			return nil, nil
		},
	}
	service := NewService(patients, lister, nil, nil, zerolog.Nop())

	_, err := service.ExportVitals(context.Background(), "PT404")
	if !errors.Is(err, patient.ErrPatientNotFound) {
		t.Errorf("Expected ErrPatientNotFound, got %v", err)
	}
	if listed {
		t.Error("Expected vitals not to be read for an unknown patient")
	}
}

func TestExportVitals_StoreErrors(t *testing.T) {
	t.Run("Patient lookup", func(t *testing.T) {
		patients := &mockPatients{
			getPatientFunc: func(ctx context.Context, patientID string) (*patient.Patient, error) {
				return nil, errors.New("timeout")
			},
		}
		service := NewService(patients, &mockVitals{}, nil, nil, zerolog.Nop())
		_, err := service.ExportVitals(context.Background(), "PT001")
		if err == nil || errors.Is(err, patient.ErrPatientNotFound) {
			t.Errorf("Expected wrapped store error, got %v", err)
		}
	})

	t.Run("Vitals listing", func(t *testing.T) {
		lister := &mockVitals{
			listVitalsFunc: func(ctx context.Context, patientID string) ([]vitals.Vital, error) {
				return nil, errors.New("cursor killed")
			},
		}
		service := NewService(foundPatient(), lister, nil, nil, zerolog.Nop())
		if _, err := service.ExportVitals(context.Background(), "PT001"); err == nil {
			t.Error("Expected error")
		}
	})
}
