package cpu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

type cpuTracer struct {
	logger log.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once

	// The tracer id.
	id string

	// Relative speed estimate reported to the schedulers.
	speed uint32

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// Closed to signal the worker to exit.
	closeChan chan struct{}

	// Statistics for the last rendered block. Only written by the worker.
	stats *tracer.Stats
}

// Create a new cpu tracer and start its worker. Each tracer renders one
// block at a time on its own goroutine.
func NewTracer(id string, speed uint32) tracer.Tracer {
	if speed == 0 {
		speed = 1
	}

	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		blockReqChan: make(chan tracer.BlockRequest),
		closeChan:    make(chan struct{}),
		stats:        &tracer.Stats{},
	}
	tr.startWorker()

	return tr
}

// Create count tracers with ids cpu-0 ... cpu-(count-1).
func NewTracerPool(count int) []tracer.Tracer {
	tracers := make([]tracer.Tracer, count)
	for idx := range tracers {
		tracers[idx] = NewTracer(fmt.Sprintf("cpu-%d", idx), 1)
	}
	return tracers
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return tr.speed
}

// Enqueue block request. Blocks until the worker accepts the request; if the
// tracer has been closed the request fails with ErrTracerClosed.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	case <-tr.closeChan:
		blockReq.ErrChan <- ErrTracerClosed
	}
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Shutdown the worker and wait for it to exit.
func (tr *cpuTracer) Close() {
	tr.closeOnce.Do(func() {
		close(tr.closeChan)
		tr.wg.Wait()
	})
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				stats, err := tr.renderBlock(&blockReq)
				*tr.stats = stats
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render the rows of a block into the shared frame buffer. The request
// context is checked before each scanline.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) (tracer.Stats, error) {
	stats := tracer.Stats{}
	startTime := time.Now()

	state := blockReq.State
	if state == nil || state.Scene == nil || state.Scene.Field == nil {
		return stats, ErrNoFrameState
	}

	frameW, frameH := blockReq.FrameW, blockReq.FrameH
	if blockReq.BlockY+blockReq.BlockH > frameH || uint64(len(blockReq.Pixels)) < uint64(frameW)*uint64(frameH) {
		return stats, fmt.Errorf("%w: rows [%d, %d) of %dx%d frame", ErrInvalidBlock, blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, frameW, frameH)
	}

	ctx := blockReq.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		if err := ctx.Err(); err != nil {
			stats.RenderTime = time.Since(startTime)
			return stats, err
		}

		row := blockReq.Pixels[y*frameW : (y+1)*frameW]
		for x := range row {
			u, v := PixelNDC(uint32(x), y, frameW, frameH)
			frag := ShadeFragment(state, u, v)
			row[x] = types.PackABGR(frag.Color)

			stats.Rays++
			stats.MarchSteps += uint64(frag.Steps)
			switch frag.Surface {
			case SurfaceObject:
				stats.ObjectHits++
			case SurfaceFloor:
				stats.FloorHits++
			default:
				stats.SkyHits++
			}
		}
		stats.BlockH++
	}

	stats.RenderTime = time.Since(startTime)
	tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, stats.RenderTime)
	return stats, nil
}
