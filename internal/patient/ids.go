package patient

import (
	"fmt"
	"strconv"
)

const (
	PatientIDPrefix = "PT"
	FirstPatientID  = "PT001"
)

// NextPatientID returns the identifier following lastID, the highest one
// issued so far. An empty lastID means no patient exists yet. The suffix is
// zero-padded to three digits and simply grows past PT999.
func NextPatientID(lastID string) (string, error) {
	if lastID == "" {
		return FirstPatientID, nil
	}
	if len(lastID) <= len(PatientIDPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPatientID, lastID)
	}

	n, err := strconv.Atoi(lastID[len(PatientIDPrefix):])
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPatientID, lastID)
	}
	return fmt.Sprintf("%s%03d", PatientIDPrefix, n+1), nil
}
