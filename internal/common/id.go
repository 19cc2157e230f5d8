package common

import (
	"github.com/google/uuid"
)

// NewAnalysisID generates a unique change-analysis artifact ID.
// Format: chg_<uuid>
func NewAnalysisID() string {
	return "chg_" + uuid.New().String()
}
