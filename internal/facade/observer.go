package facade

import (
	"log"
)

// Stage names a step of the pipeline.
type Stage string

const (
	StageProfiles  Stage = "profiles"
	StageSpacing   Stage = "spacing"
	StageGradient  Stage = "gradient"
	StageRowSplits Stage = "row_splits"
	StageColSplits Stage = "col_splits"
	StageTileRound Stage = "tile_round"
	StageFold      Stage = "fold"
	StageDone      Stage = "done"
)

// Event reports progress. Artifact carries the stage's output (profiles,
// selections, tile state, fold buffer) for observers that want to inspect or
// render it; it must be treated as read-only.
type Event struct {
	Stage    Stage
	Round    int
	Message  string
	Artifact any
}

// Observer receives pipeline events synchronously, in stage order.
type Observer func(Event)

// LogObserver returns an Observer that prints every event to l.
func LogObserver(l *log.Logger) Observer {
	return func(e Event) {
		if e.Stage == StageTileRound {
			l.Printf("[%s %d] %s", e.Stage, e.Round, e.Message)
			return
		}
		l.Printf("[%s] %s", e.Stage, e.Message)
	}
}
