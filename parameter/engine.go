package parameter

import "time"

// Driver loop timing
const (
	// TickInterval drives the simulation step, up to 100 steps per second
	TickInterval = 10 * time.Millisecond

	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventChannelSize buffers terminal events between poller and main loop
	EventChannelSize = 100

	// HeadlessSteps is the default step count for headless runs
	HeadlessSteps = 1000

	// HeadlessDelta is the fixed step used when no wall clock drives the world
	HeadlessDelta = 1.0 / 100
)

// Snapshot streaming
const (
	// StreamWriteWait bounds a single websocket write
	StreamWriteWait = 10 * time.Second

	// StreamInterval throttles snapshot broadcasts (~30 Hz)
	StreamInterval = 33 * time.Millisecond

	StreamReadBufferSize  = 1024
	StreamWriteBufferSize = 1024
)
