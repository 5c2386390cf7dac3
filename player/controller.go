package player

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"xiangqi/game"
	"xiangqi/gamemaster"
	"xiangqi/searcher"
)

type Controller interface {
	Run() (game.GameResult, error)
}

// treeController plays both sides of a refereed game from one search tree,
// advancing the tree past every committed move instead of rebuilding it.
type treeController struct {
	engine     *searcher.Engine
	referee    gamemaster.Engine
	iterations int
	workers    int
}

func NewTreeController(engine *searcher.Engine, referee gamemaster.Engine, iterations, workers int) Controller {
	return &treeController{
		engine:     engine,
		referee:    referee,
		iterations: iterations,
		workers:    workers,
	}
}

func (c *treeController) Run() (game.GameResult, error) {
	board, side, getUpdate := c.referee.Init()
	c.engine.Reset(board, side)

	for !c.referee.Result().IsOver() {
		if c.workers > 1 {
			c.engine.ParallelRun(c.iterations, c.workers)
		} else {
			c.engine.Run(c.iterations)
		}
		if c.engine.Root().IsLeaf() {
			log.Warn().Msgf("%s has no legal moves, adjudicating a draw", side)
			return game.Draw, nil
		}

		move := c.engine.GetBestMove()
		if err := c.referee.Play(move); err != nil {
			return game.NotOver, fmt.Errorf("failed to play %s: %w", move, err)
		}
		u, _ := getUpdate()
		if err := c.engine.AdvanceTree(move); err != nil {
			return game.NotOver, fmt.Errorf("failed to advance search tree: %w", err)
		}
		side = u.Side

		log.Debug().Str("move", move.String()).Int("reused", c.engine.Root().Visits()).Msg("advanced search tree")
	}
	return c.referee.Result(), nil
}
