package repository

import (
	"time"

	"github.com/google/uuid"
)

// NewReference returns TXN-YYYYMMDD-xxxxxxxx for the given time
func NewReference(at time.Time) string {
	return "TXN-" + at.Format("20060102") + "-" + uuid.NewString()[:8]
}
