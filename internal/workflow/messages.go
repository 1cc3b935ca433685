package workflow

import (
	"github.com/yildizm/ColorSeason/internal/capture"
	"github.com/yildizm/ColorSeason/internal/season"
)

// User intents. The view sends these to Controller.Update.
type (
	GetStartedMsg       struct{}
	ChooseCameraMsg     struct{}
	ChooseUploadMsg     struct{}
	CaptureRequestedMsg struct{}
	FileSelectedMsg     struct{ Path string }
	RetakeMsg           struct{}
	AcceptMsg           struct{}
	RestartMsg          struct{}
	BackToSelectMsg     struct{}
	BackToHomeMsg       struct{}
	SetGenderMsg        struct{ Gender season.Gender }
	NextPageMsg         struct{}
	PrevPageMsg         struct{}
	OpenOutfitMsg       struct{ Index int }
	CloseOutfitMsg      struct{}
	DismissAlertMsg     struct{}
)

// Completion messages. Each carries the sequence number of the operation
// that produced it; the controller drops any whose sequence is no longer
// current.

type cameraOpenedMsg struct {
	seq    uint64
	camera capture.Camera
	err    error
}

type captureDoneMsg struct {
	seq   uint64
	image *capture.EncodedImage
	err   error
}

type uploadDoneMsg struct {
	seq   uint64
	path  string
	image *capture.EncodedImage
	err   error
}

type analysisDoneMsg struct {
	seq    uint64
	result *season.AnalysisResult
	err    error
}

type outfitsDoneMsg struct {
	seq    uint64
	query  season.OutfitQuery
	images []string
	err    error
}
