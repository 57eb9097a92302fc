package enums

// ReceivingJobStatus is the state of a batch receiving job.
type ReceivingJobStatus string

const (
	ReceivingJobStatusQueued     ReceivingJobStatus = "queued"
	ReceivingJobStatusProcessing ReceivingJobStatus = "processing"
	ReceivingJobStatusCompleted  ReceivingJobStatus = "completed"
	ReceivingJobStatusFailed     ReceivingJobStatus = "failed"
	ReceivingJobStatusCancelled  ReceivingJobStatus = "cancelled"
)

var validReceivingJobStatuses = []ReceivingJobStatus{
	ReceivingJobStatusQueued,
	ReceivingJobStatusProcessing,
	ReceivingJobStatusCompleted,
	ReceivingJobStatusFailed,
	ReceivingJobStatusCancelled,
}

// String implements fmt.Stringer.
func (s ReceivingJobStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReceivingJobStatus.
func (s ReceivingJobStatus) IsValid() bool {
	for _, candidate := range validReceivingJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the job can no longer make progress.
func (s ReceivingJobStatus) IsTerminal() bool {
	switch s {
	case ReceivingJobStatusCompleted, ReceivingJobStatusFailed, ReceivingJobStatusCancelled:
		return true
	}
	return false
}
