package jobs

import "strings"

// Status is the lifecycle state of a transcription job as reported by the
// transcription service.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal returns true when the job will not change state anymore.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record is the persisted view of one transcription job.
type Record struct {
	Job          string `json:"job"`
	User         string `json:"user"`
	JobStatus    string `json:"job_status"`
	SourceURI    string `json:"source_uri"`
	ResultBucket string `json:"result_bucket"`
	ResultKey    string `json:"result_key"`
	MediaFormat  string `json:"media_format"`
	LanguageCode string `json:"language_code"`
	CreatedAt    int64  `json:"created_at"`
}

// Descriptor is the parameter set for one job submission. It is built fresh
// per notification and never mutated.
type Descriptor struct {
	JobName      string
	MediaURI     string
	MediaFormat  string
	LanguageCode string
	OutputBucket string
	OutputKey    string
}

// OwnerFromKey extracts the owning user from an object key of the form
// <prefix>/<user>/<file>. Keys without such a prefix have no owner.
func OwnerFromKey(key string) string {
	toks := strings.Split(key, "/")
	if len(toks) < 3 {
		return ""
	}
	return toks[1]
}
