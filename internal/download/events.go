package download

import "github.com/handiism/album-downloader/internal/model"

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// EventKind tells front-ends which step of a run an event belongs to.
type EventKind int

const (
	// EventMessage is a free-form notice with no track attached.
	EventMessage EventKind = iota
	EventAlbumFound
	EventTrackStarting
	EventTrackFinished
	EventTrackFailed
	EventBatchDone
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	Kind    EventKind

	// Track is set for the EventTrack* kinds.
	Track *model.Track
}
