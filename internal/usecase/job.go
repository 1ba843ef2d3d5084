package usecase

import "github.com/google/uuid"

const (
	JobStatusPending    = "PENDING"
	JobStatusProcessing = "PROCESSING"
	JobStatusCompleted  = "COMPLETED"
	JobStatusFailed     = "FAILED"
)

type Job struct {
	ID     uuid.UUID
	Type   string
	Status string
	Result []byte
	Error  string
}

func JobNotFound(id uuid.UUID) ErrNotFound {
	return ErrNotFound{
		ID:      id,
		Code:    "job_not_found",
		Message: "job " + id.String() + " not found",
	}
}
