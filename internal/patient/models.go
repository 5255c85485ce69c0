package patient

import (
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Patient is a registered patient as stored in the patients collection
type Patient struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID        string             `bson:"patientId" json:"patientId"`
	UserID           string             `bson:"userId" json:"userId"`
	Age              int                `bson:"age" json:"age"`
	Gender           string             `bson:"gender" json:"gender"`
	Weight           float64            `bson:"weight" json:"weight"`
	HeightCm         float64            `bson:"heightCm" json:"heightCm"`
	HeightFeet       int                `bson:"heightFeet" json:"heightFeet"`
	HeightInches     float64            `bson:"heightInches" json:"heightInches"`
	HasSepsis        bool               `bson:"hasSepsis" json:"hasSepsis"`
	MonitoringMethod string             `bson:"monitoringMethod" json:"monitoringMethod"`
	AdditionalNotes  string             `bson:"additionalNotes" json:"additionalNotes"`
	CreatedAt        string             `bson:"createdAt" json:"createdAt"`
}

// CreatePatientRequest represents the request to register a patient
type CreatePatientRequest struct {
	UserID           string  `json:"userId"`
	Age              int     `json:"age"`
	Gender           string  `json:"gender"`
	Weight           float64 `json:"weight"`
	HeightCm         float64 `json:"heightCm"`
	HeightFeet       int     `json:"heightFeet"`
	HeightInches     float64 `json:"heightInches"`
	HasSepsis        bool    `json:"hasSepsis"`
	MonitoringMethod string  `json:"monitoringMethod"`
	AdditionalNotes  string  `json:"additionalNotes"`
}

// NextIDResponse is the body of GET /patients/next-id
type NextIDResponse struct {
	NextID string `json:"nextId"`
}

// Validate validates the create patient request
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(r.Gender) == "" {
		return ErrMissingGender
	}
	if strings.TrimSpace(r.MonitoringMethod) == "" {
		return ErrMissingMonitoringMethod
	}
	if r.Age < 0 {
		return ErrNegativeAge
	}
	if r.Weight < 0 || r.HeightCm < 0 || r.HeightFeet < 0 || r.HeightInches < 0 {
		return ErrNegativeMeasurement
	}
	return nil
}

const cmPerInch = 2.54

// NormalizeHeight fills in whichever height representation the caller left
// empty. A request carrying both is stored as sent.
func (r *CreatePatientRequest) NormalizeHeight() {
	switch {
	case r.HeightCm > 0 && r.HeightFeet == 0 && r.HeightInches == 0:
		totalInches := r.HeightCm / cmPerInch
		feet := int(math.Floor(totalInches / 12))
		inches := roundTenth(totalInches - float64(feet*12))
		if inches >= 12 {
			feet++
			inches = roundTenth(inches - 12)
		}
		r.HeightFeet = feet
		r.HeightInches = inches
	case r.HeightCm == 0 && (r.HeightFeet > 0 || r.HeightInches > 0):
		r.HeightCm = roundTenth((float64(r.HeightFeet*12) + r.HeightInches) * cmPerInch)
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (r *CreatePatientRequest) toPatient(patientID, createdAt string) *Patient {
	return &Patient{
		PatientID:        patientID,
		UserID:           r.UserID,
		Age:              r.Age,
		Gender:           r.Gender,
		Weight:           r.Weight,
		HeightCm:         r.HeightCm,
		HeightFeet:       r.HeightFeet,
		HeightInches:     r.HeightInches,
		HasSepsis:        r.HasSepsis,
		MonitoringMethod: r.MonitoringMethod,
		AdditionalNotes:  r.AdditionalNotes,
		CreatedAt:        createdAt,
	}
}
