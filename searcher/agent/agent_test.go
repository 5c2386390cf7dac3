package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/game"
	"xiangqi/searcher"
)

var (
	a1 = game.NewMove(0, 0, 1, 0)
	a2 = game.NewMove(0, 0, 2, 0)
	c1 = game.NewMove(2, 1, 2, 4)
)

func newEngine() *searcher.Engine {
	return searcher.NewSearchEngine(game.NewBoard(), game.Red,
		searcher.WithSeed(5), searcher.WithGoroutines(1), searcher.WithEpisodes(120))
}

func TestFindMax(t *testing.T) {
	t.Run("most visited move", func(t *testing.T) {
		require.Equal(t, a2, findMax(map[game.Move]float64{a1: 3, a2: 9, c1: 4}))
	})

	t.Run("ties go to the first move in board order", func(t *testing.T) {
		require.Equal(t, a1, findMax(map[game.Move]float64{c1: 5, a2: 5, a1: 5}))
	})

	t.Run("empty policy", func(t *testing.T) {
		require.Equal(t, game.NoMove, findMax(nil))
	})
}

func TestAdjustTemperature(t *testing.T) {
	policy := map[game.Move]float64{a1: 1, a2: 3}

	t.Run("unit temperature normalizes visits", func(t *testing.T) {
		got := adjustTemperature(policy, 1)
		require.InDelta(t, 0.25, got[a1], 1e-12)
		require.InDelta(t, 0.75, got[a2], 1e-12)
	})

	t.Run("low temperature sharpens", func(t *testing.T) {
		got := adjustTemperature(policy, 0.5)
		require.InDelta(t, 0.1, got[a1], 1e-12)
		require.InDelta(t, 0.9, got[a2], 1e-12)
	})

	t.Run("no visits", func(t *testing.T) {
		got := adjustTemperature(map[game.Move]float64{a1: 0}, 1)
		require.Zero(t, got[a1])
	})
}

func TestSample(t *testing.T) {
	policy := map[game.Move]float64{c1: 0.5, a1: 0.2, a2: 0.3}

	require.Equal(t, a1, sample(policy, 0.1))
	require.Equal(t, a2, sample(policy, 0.4))
	require.Equal(t, c1, sample(policy, 0.6))
	require.Equal(t, c1, sample(policy, 1.0), "Rounding should fall back to the last move")
}

func TestAgents(t *testing.T) {
	board := game.NewBoard()
	legal := board.LegalMoves(game.Red)

	t.Run("evaluation agent plays the engine's best move", func(t *testing.T) {
		engine := newEngine()
		move, _ := NewEvaluationAgent(engine).FindMove(board, game.Red, nil)

		require.Contains(t, legal, move)
		policy := engine.Root().Policy()
		for _, visits := range policy {
			require.LessOrEqual(t, visits, policy[move])
		}
	})

	t.Run("training agent samples a legal move", func(t *testing.T) {
		move, _ := NewTrainingAgent(newEngine(), 1.0, 9).FindMove(board, game.Red, nil)
		require.Contains(t, legal, move)
	})

	t.Run("training agent is reproducible", func(t *testing.T) {
		first, _ := NewTrainingAgent(newEngine(), 0.7, 9).FindMove(board, game.Red, nil)
		second, _ := NewTrainingAgent(newEngine(), 0.7, 9).FindMove(board, game.Red, nil)
		require.Equal(t, first, second)
	})
}
