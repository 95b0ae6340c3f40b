package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration

	// Primary ray counters for the assigned block.
	Rays       uint64
	MarchSteps uint64
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration

	// Frame-wide primary ray counters.
	Rays       uint64
	MarchSteps uint64
	ObjectHits uint64
	FloorHits  uint64
	SkyHits    uint64
}

// Average number of march steps per primary ray.
func (s FrameStats) StepsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.MarchSteps) / float64(s.Rays)
}
