package archives

import "github.com/nexmo-se/aws-recording-download-sample/internal/opentok"

// Payload is an archive record on the wire. The provider reports camelCase
// field names; the API contract is snake_case, so every provider field is
// mapped here explicitly. This is a serialization contract: new provider
// fields must be added to both the struct and Wire.
type Payload struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
	SessionID  string `json:"session_id"`
	ProjectID  int64  `json:"project_id"`
	CreatedAt  int64  `json:"created_at"`
	Size       int64  `json:"size"`
	Duration   int64  `json:"duration"`
	HasAudio   bool   `json:"has_audio"`
	HasVideo   bool   `json:"has_video"`
	OutputMode string `json:"output_mode"`
	URL        string `json:"url"`
}

// Wire converts a provider archive record to its wire representation.
func Wire(a opentok.Archive) Payload {
	return Payload{
		ID:         a.ID,
		Status:     a.Status,
		Name:       a.Name,
		Reason:     a.Reason,
		SessionID:  a.SessionID,
		ProjectID:  a.ProjectID,
		CreatedAt:  a.CreatedAt,
		Size:       a.Size,
		Duration:   a.Duration,
		HasAudio:   a.HasAudio,
		HasVideo:   a.HasVideo,
		OutputMode: a.OutputMode,
		URL:        a.URL,
	}
}
