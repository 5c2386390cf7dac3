package searcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xiangqi/game"
)

func newEngine(options ...Option) *Engine {
	options = append([]Option{WithSeed(42), WithGoroutines(1), WithEpisodes(50)}, options...)
	return NewSearchEngine(game.NewBoard(), game.Red, options...)
}

func requireNoVirtualLoss(t *testing.T, root *Node) {
	t.Helper()
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		require.Zero(t, node.VirtualLoss())
		stack = append(stack, node.Children()...)
	}
}

func childVisits(root *Node) int {
	total := 0
	for _, child := range root.Children() {
		total += child.Visits()
	}
	return total
}

func TestRun(t *testing.T) {
	t.Run("one iteration expands every opening move", func(t *testing.T) {
		e := newEngine()

		e.Run(1)

		root := e.Root()
		require.Len(t, root.Children(), len(game.NewBoard().LegalMoves(game.Red)))
		require.Equal(t, 1, root.Visits())
		require.Equal(t, 1, childVisits(root))
		require.Contains(t, game.NewBoard().LegalMoves(game.Red), e.GetBestMove())
	})

	t.Run("removes every virtual loss", func(t *testing.T) {
		e := newEngine()
		e.Run(100)
		requireNoVirtualLoss(t, e.Root())
		require.Equal(t, 100, e.Root().Visits())
	})

	t.Run("same seed gives the same tree", func(t *testing.T) {
		a, b := newEngine(), newEngine()
		a.Run(200)
		b.Run(200)
		require.Equal(t, a.Root().Policy(), b.Root().Policy())
		require.Equal(t, a.TreeSize(), b.TreeSize())
	})

	t.Run("finds an immediate king capture", func(t *testing.T) {
		b := boardWith(map[game.Square]game.Cell{
			{Row: 5, Col: 5}: {Type: game.Rook, Color: game.Red},
			{Row: 6, Col: 0}: {Type: game.Pawn, Color: game.Black},
		})
		e := NewSearchEngine(b, game.Red, WithSeed(3))

		e.Run(1000)

		require.Equal(t, game.NewMove(5, 5, 9, 5), e.GetBestMove())
	})
}

func TestParallelRun(t *testing.T) {
	t.Run("root visits equal the iteration count", func(t *testing.T) {
		e := newEngine()

		e.ParallelRun(203, 4)

		root := e.Root()
		require.Equal(t, 203, root.Visits())
		require.Equal(t, 203, childVisits(root))
		requireNoVirtualLoss(t, root)
	})

	t.Run("no iterations returns at once", func(t *testing.T) {
		e := newEngine()
		done := make(chan struct{})
		go func() {
			e.ParallelRun(0, 4)
			e.ParallelRun(-5, 1)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("ParallelRun without iterations should not block")
		}
		require.Zero(t, e.Root().Visits())
		e.Run(1)
		require.Equal(t, 1, e.Root().Visits(), "Engine should stay usable")
	})

	t.Run("more workers than iterations", func(t *testing.T) {
		e := newEngine()
		e.ParallelRun(3, 8)
		require.Equal(t, 3, e.Root().Visits())
	})

	t.Run("cancelled context stops early", func(t *testing.T) {
		e := newEngine()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := e.RunContext(ctx, 100, 4)

		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, e.Root().Visits())
	})

	t.Run("no iteration count runs until the deadline", func(t *testing.T) {
		e := newEngine()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		require.NoError(t, e.RunContext(ctx, 0, 2))
		require.Positive(t, e.Root().Visits())
		requireNoVirtualLoss(t, e.Root())
	})
}

func TestGetBestMove(t *testing.T) {
	t.Run("unexpanded root panics", func(t *testing.T) {
		e := newEngine()
		require.Panics(t, func() { e.GetBestMove() })
	})

	t.Run("returns the most visited child", func(t *testing.T) {
		e := newEngine()
		e.Run(300)

		best := e.GetBestMove()
		policy := e.Root().Policy()
		for _, visits := range policy {
			require.LessOrEqual(t, visits, policy[best])
		}
	})
}

func TestAdvanceTree(t *testing.T) {
	t.Run("committed child becomes the root", func(t *testing.T) {
		e := newEngine()
		e.Run(100)
		old := e.Root()
		move := game.NewMove(0, 0, 2, 0)
		var committed *Node
		for _, child := range old.Children() {
			if child.LastMove() == move {
				committed = child
			}
		}
		require.NotNil(t, committed)
		visits := committed.Visits()

		require.NoError(t, e.AdvanceTree(move))

		root := e.Root()
		require.Same(t, committed, root)
		require.Equal(t, move, root.LastMove())
		require.True(t, root.IsRoot())
		require.Equal(t, visits, root.Visits(), "Subtree statistics should be kept")
		require.True(t, old.IsLeaf(), "Siblings should be detached")
		require.Equal(t, game.Black, root.SideToMove())
	})

	t.Run("leaf root is expanded first", func(t *testing.T) {
		e := newEngine()
		move := game.NewMove(3, 0, 4, 0)

		require.NoError(t, e.AdvanceTree(move))

		require.Equal(t, move, e.Root().LastMove())
	})

	t.Run("unknown move", func(t *testing.T) {
		e := newEngine()
		e.Run(10)
		old := e.Root()

		err := e.AdvanceTree(game.NewMove(0, 0, 5, 5))

		require.ErrorIs(t, err, ErrUnknownMove)
		require.Same(t, old, e.Root())
	})

	t.Run("auto advance follows the best move", func(t *testing.T) {
		e := newEngine()
		e.Run(200)
		best := e.GetBestMove()

		got, err := e.AdvanceTreeAuto()

		require.NoError(t, err)
		require.Equal(t, best, got)
		require.Equal(t, best, e.Root().LastMove())
		require.True(t, e.Root().IsRoot())
	})

	t.Run("auto advance on a finished game", func(t *testing.T) {
		finished := boardWith(nil) // Bare kings
		e := NewSearchEngine(finished, game.Red, WithSeed(1))

		move, err := e.AdvanceTreeAuto()

		require.ErrorIs(t, err, ErrNoChildren)
		require.Equal(t, game.NoMove, move)
		require.Equal(t, finished, e.Root().Board())
		require.ErrorIs(t, e.AdvanceTree(game.NewMove(0, 3, 1, 3)), ErrUnknownMove)
	})

	t.Run("sequence of advances keeps searching", func(t *testing.T) {
		e := newEngine()
		for i := 0; i < 4; i++ {
			e.Run(30)
			_, err := e.AdvanceTreeAuto()
			require.NoError(t, err)
		}
		require.Equal(t, game.Red, e.Root().SideToMove())
		requireNoVirtualLoss(t, e.Root())
	})
}

func TestFollow(t *testing.T) {
	e := newEngine()
	e.Run(20)
	move := game.NewMove(2, 1, 2, 4)
	next := game.NewBoard().ApplyMove(move.From, move.To)

	t.Run("mismatched hash keeps the tree", func(t *testing.T) {
		old := e.Root()
		require.False(t, e.Follow([]Segment{{Move: move, Hash: next.Hash(game.Red)}}))
		require.Same(t, old, e.Root())
	})

	t.Run("unexpanded move keeps the tree", func(t *testing.T) {
		old := e.Root()
		require.False(t, e.Follow([]Segment{{Move: game.NewMove(0, 0, 9, 0), Hash: 1}}))
		require.Same(t, old, e.Root())
	})

	t.Run("matching path advances the root", func(t *testing.T) {
		require.True(t, e.Follow([]Segment{{Move: move, Hash: next.Hash(game.Black)}}))
		require.Equal(t, move, e.Root().LastMove())
		require.Equal(t, next, e.Root().Board())
	})

	t.Run("empty path reuses the root", func(t *testing.T) {
		old := e.Root()
		require.True(t, e.Follow(nil))
		require.Same(t, old, e.Root())
	})
}

func TestSearch(t *testing.T) {
	t.Run("reuses the tree along the path", func(t *testing.T) {
		e := newEngine(WithMetrics())
		board := game.NewBoard()

		policy, metric := e.Search(board, game.Red, nil)
		require.Len(t, policy, 44)
		require.Equal(t, 50, metric.Episodes)
		require.True(t, metric.IsTreeReset, "First search starts a fresh tree")
		require.Positive(t, metric.TreeSize)

		move := game.NewMove(2, 7, 2, 4)
		next := board.ApplyMove(move.From, move.To)
		_, metric = e.Search(next, game.Black, []Segment{{Move: move, Hash: next.Hash(game.Black)}})
		require.False(t, metric.IsTreeReset)
		require.Equal(t, move, e.Root().LastMove())
	})

	t.Run("same position again reuses the searched root", func(t *testing.T) {
		e := newEngine(WithMetrics())
		e.Search(game.NewBoard(), game.Red, nil)

		_, metric := e.Search(game.NewBoard(), game.Red, nil)

		require.False(t, metric.IsTreeReset)
		require.Equal(t, 100, e.Root().Visits())
	})

	t.Run("resets when the position does not match", func(t *testing.T) {
		e := newEngine(WithMetrics())
		e.Search(game.NewBoard(), game.Red, nil)

		other := boardWith(map[game.Square]game.Cell{
			{Row: 4, Col: 4}: {Type: game.Rook, Color: game.Red},
		})
		policy, metric := e.Search(other, game.Red, nil)

		require.True(t, metric.IsTreeReset)
		require.Equal(t, game.NoMove, e.Root().LastMove())
		require.Equal(t, other, e.Root().Board())
		require.NotEmpty(t, policy)
	})

	t.Run("duration budget", func(t *testing.T) {
		e := NewSearchEngine(game.NewBoard(), game.Red, WithSeed(1), WithGoroutines(2), WithDuration(30*time.Millisecond))

		policy, _ := e.Search(game.NewBoard(), game.Red, nil)

		require.NotEmpty(t, policy)
		requireNoVirtualLoss(t, e.Root())
	})
}
