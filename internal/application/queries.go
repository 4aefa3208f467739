package application

import "github.com/bnema/coverscreen/internal/domain"

type ScreenStatus struct {
	Descriptor domain.ScreenDescriptor
	State      domain.SessionState
	Stats      domain.ScreenStats
}

type SkippedRecord struct {
	Origin string
	ID     domain.ScreenID
	Err    error
}

type DiscoveryReport struct {
	Source    string
	Connected []domain.ScreenDescriptor
	Skipped   []SkippedRecord
}

type DiscoveryStage string

const (
	StageListed    DiscoveryStage = "listed"
	StageDialing   DiscoveryStage = "dialing"
	StageConnected DiscoveryStage = "connected"
	StageSkipped   DiscoveryStage = "skipped"
)

// DiscoveryEvent reports one step of a connect. Index counts records from 1;
// a StageListed event carries only Total.
type DiscoveryEvent struct {
	Stage    DiscoveryStage
	Index    int
	Total    int
	Origin   string
	ID       domain.ScreenID
	Endpoint string
	Err      error
}

// ProgressFunc receives discovery events on the connecting goroutine. It must
// not block and must not call back into the Engine.
type ProgressFunc func(DiscoveryEvent)

func (f ProgressFunc) emit(event DiscoveryEvent) {
	if f != nil {
		f(event)
	}
}
