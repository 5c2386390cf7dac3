package player

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/game"
	"xiangqi/gamemaster"
	"xiangqi/searcher"
)

func TestTreeController(t *testing.T) {
	t.Run("plays until the turn cap", func(t *testing.T) {
		engine := searcher.NewSearchEngine(game.NewBoard(), game.Red, searcher.WithSeed(1), searcher.WithCutoff(40))
		referee := gamemaster.NewLocalEngine(gamemaster.WithMaxTurns(4))

		result, err := NewTreeController(engine, referee, 30, 1).Run()

		require.NoError(t, err)
		require.True(t, result.IsOver())
		require.Equal(t, 4, referee.Plies())
		require.Equal(t, referee.Board(), engine.Root().Board(), "Tree should follow the referee")
		require.True(t, engine.Root().IsRoot())
	})

	t.Run("parallel workers", func(t *testing.T) {
		engine := searcher.NewSearchEngine(game.NewBoard(), game.Red, searcher.WithSeed(2), searcher.WithCutoff(40))
		referee := gamemaster.NewLocalEngine(gamemaster.WithMaxTurns(2))

		result, err := NewTreeController(engine, referee, 40, 4).Run()

		require.NoError(t, err)
		require.Equal(t, game.Draw, result)
		require.Equal(t, game.Red, engine.Root().SideToMove())
	})
}
