package opentok

// Archive statuses reported by the video provider. The service never sets
// these locally; it only reads them back from the provider.
const (
	StatusStarting  = "starting"
	StatusRecording = "recording"
	StatusStopped   = "stopped"
	StatusUploading = "uploading"
	StatusUploaded  = "uploaded"
	StatusFailed    = "failed"
)

// Archive is a provider-side recording of a session, as returned by the
// provider REST API (camelCase field names are the provider's convention).
type Archive struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
	SessionID  string `json:"sessionId"`
	ProjectID  int64  `json:"projectId"`
	CreatedAt  int64  `json:"createdAt"`
	Size       int64  `json:"size"`
	Duration   int64  `json:"duration"`
	HasAudio   bool   `json:"hasAudio"`
	HasVideo   bool   `json:"hasVideo"`
	OutputMode string `json:"outputMode"`
	URL        string `json:"url"`
}

// Uploaded reports whether the archive has landed in cold storage and is
// ready for download URL generation.
func (a Archive) Uploaded() bool {
	return a.Status == StatusUploaded
}
