package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/ranging"
)

func fixedScene() Scene {
	return Scene{Obstacles: []Obstacle{
		{From: 10, To: 30, Distance: 50},
		{From: 20, To: 40, Distance: 20},
		{From: 170, To: 180, Distance: 380},
	}}
}

func TestNearestPicksClosestCoveringObstacle(t *testing.T) {
	s := fixedScene()

	o, ok := s.Nearest(15)
	require.True(t, ok)
	assert.Equal(t, 50.0, o.Distance)

	o, ok = s.Nearest(25)
	require.True(t, ok)
	assert.Equal(t, 20.0, o.Distance)

	_, ok = s.Nearest(90)
	assert.False(t, ok)
}

func TestPerfectHeadEchoesObstacleDistance(t *testing.T) {
	h := NewHead(fixedScene(), Options{}, rand.New(rand.NewSource(1)))
	s := ranging.NewSampler(h, 0)

	h.SetAngle(25)
	got := s.Measure()
	require.True(t, got.Valid)
	assert.InDelta(t, 20.0, got.Distance, 0.01)

	h.SetAngle(90)
	assert.Equal(t, ranging.OutOfRange, s.Measure())
}

func TestEchoBeyondTimeoutIsLost(t *testing.T) {
	h := NewHead(fixedScene(), Options{}, rand.New(rand.NewSource(1)))
	h.SetAngle(175)

	_, ok := h.Ping(time.Millisecond)
	assert.False(t, ok)

	echo, ok := h.Ping(config.EchoTimeout)
	require.True(t, ok)
	assert.InDelta(t, 380.0, ranging.EchoToCentimeters(echo), 0.01)
}

func TestDropRateLosesEchoes(t *testing.T) {
	h := NewHead(fixedScene(), Options{DropRate: 1}, rand.New(rand.NewSource(1)))
	h.SetAngle(25)

	for i := 0; i < 10; i++ {
		_, ok := h.Ping(config.EchoTimeout)
		assert.False(t, ok)
	}
}

func TestSpuriousEchoesAreRejectedBySampler(t *testing.T) {
	h := NewHead(fixedScene(), Options{SpuriousRate: 1}, rand.New(rand.NewSource(7)))
	s := ranging.NewSampler(h, 0)
	h.SetAngle(25)

	for i := 0; i < 20; i++ {
		assert.Equal(t, ranging.OutOfRange, s.Measure())
	}
}

func TestSetAngleClamps(t *testing.T) {
	h := NewHead(Scene{}, Options{}, nil)

	h.SetAngle(-10)
	assert.Equal(t, 0, h.Angle())
	h.SetAngle(200)
	assert.Equal(t, 180, h.Angle())
	h.SetAngle(42)
	assert.Equal(t, 42, h.Angle())
}

func TestRandomSceneBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		s := RandomScene(rng)
		require.GreaterOrEqual(t, len(s.Obstacles), config.SimObstacleMin)
		require.LessOrEqual(t, len(s.Obstacles), config.SimObstacleMax)
		for _, o := range s.Obstacles {
			assert.GreaterOrEqual(t, o.From, config.MinAngle)
			assert.LessOrEqual(t, o.To, config.MaxAngle)
			assert.Less(t, o.From, o.To)
			assert.Greater(t, o.Distance, config.MinRangeCM)
			assert.Less(t, o.Distance+o.Wobble, config.MaxRangeCM)
		}
	}
}
