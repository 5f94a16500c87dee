// SPDX-License-Identifier: EPL-2.0

package silence

import (
	"fmt"
	"math"

	"github.com/ik5/audclip/audio"
)

const (
	DefaultThreshold   = 0.01
	DefaultMinDuration = 0.1
)

// Options controls what counts as silence.
type Options struct {
	// Threshold is the absolute amplitude below which a sample is silent.
	// It must be in (0, 1].
	Threshold float64
	// MinDuration is the shortest run, in seconds, reported as a region.
	MinDuration float64
}

func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, MinDuration: DefaultMinDuration}
}

// Validate reports audio.ErrRange for a threshold outside (0, 1] or a
// negative or non-finite minimum duration.
func (o Options) Validate() error {
	if math.IsNaN(o.Threshold) || o.Threshold <= 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: silence threshold %v", audio.ErrRange, o.Threshold)
	}
	if math.IsNaN(o.MinDuration) || math.IsInf(o.MinDuration, 0) || o.MinDuration < 0 {
		return fmt.Errorf("%w: minimum silence duration %v", audio.ErrRange, o.MinDuration)
	}

	return nil
}
