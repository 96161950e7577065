package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func AnalysisKey(tenantID, tenderID uuid.UUID) string {
	return fmt.Sprintf("analysis:%s:%s", tenantID, tenderID)
}

func ComparisonKey(tenantID uuid.UUID, setHash string) string {
	return fmt.Sprintf("comparison:%s:%s", tenantID, setHash)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
