package config

import "time"

const (
	// Sweep geometry (degrees)
	MinAngle = 0
	MaxAngle = 180
	Step     = 2 // Degrees per tick

	// Actuator settle before sampling
	SettleDelay     = 50 * time.Millisecond
	WipeSettleDelay = 15 * time.Millisecond // Used by the end-to-end wipe style

	// Ranging
	EchoTimeout      = 30000 * time.Microsecond
	SpeedOfSoundHalf = 0.01715 // cm per microsecond of round trip (0.0343 / 2)
	MinRangeCM       = 2.0     // Sensor floor, shorter echoes are spurious
	MaxRangeCM       = 400.0   // Sensor ceiling, longer echoes are spurious

	// Command channel
	HaltToken      = "STOP"
	MaxCommandLine = 64 // Longer lines are discarded as noise
	MaxQueuedLines = 8

	// Serial link
	BaudRate = 9600

	// Radar display
	DisplayRange    = 30.0 // Detection radius shown on the radar (cm)
	AspectRatio     = 0.5  // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount       = 4    // Number of concentric half-rings
	SweepTrailDeg   = 25.0 // Trail behind the head in degrees
	TargetFPS       = 20   // Target frames per second
	MaxDetections   = 500  // Detection points kept for fading
	DetectionMaxAge = 15 * time.Second
	EvictInterval   = time.Second
	HistoryLen      = 120 // Distances kept for the sparkline

	// Simulated head
	SimObstacleMin = 3
	SimObstacleMax = 6

	// App
	AppName    = "SONAR-RADAR"
	AppVersion = "1.0"
)
