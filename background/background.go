package background

import (
	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/store"
)

// Background is a struct to maintain common clients
// and functions for all background workers
type Background struct {
	Store  store.Store
	Source detection.Source
}
