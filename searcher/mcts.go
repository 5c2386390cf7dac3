package searcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/meta"
	"xiangqi/utils"
)

var (
	ErrUnknownMove = errors.New("move is not a child of the root")
	ErrNoChildren  = errors.New("root has no children")
)

type Option func(e *Engine)

// Segment is one committed move with the hash of the position it produced.
type Segment struct {
	Move game.Move
	Hash uint64
}

// Engine owns one search tree. Public methods are serialised, so the tree is
// never advanced or reset while workers are running on it.
type Engine struct {
	mu             sync.Mutex
	root           *Node
	goroutines     int
	duration       time.Duration
	episodes       int
	cutoff         int
	exploration    float64
	noCaptureLimit int
	seed           uint64
	rng            *rand.Rand
	collect        bool
	metrics        metrics.Collector
}

func WithGoroutines(goroutines int) Option {
	return func(e *Engine) {
		if goroutines > 0 {
			e.goroutines = goroutines
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(e *Engine) {
		if duration > 0 {
			e.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(e *Engine) {
		if episodes > 0 {
			e.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.cutoff = depth
		}
	}
}

func WithExploration(c float64) Option {
	return func(e *Engine) {
		if c >= 0 {
			e.exploration = c
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func WithNoCaptureLimit(plies int) Option {
	return func(e *Engine) {
		if plies > 0 {
			e.noCaptureLimit = plies
		}
	}
}

func WithMetrics() Option {
	return func(e *Engine) {
		e.collect = true
		e.metrics = metrics.NewCollector()
	}
}

func NewSearchEngine(board game.Board, sideToMove game.Color, options ...Option) *Engine {
	e := &Engine{ // Default values
		root:           NewNode(board, sideToMove),
		goroutines:     meta.Goroutines,
		cutoff:         meta.Cutoff,
		exploration:    DefaultExploration,
		noCaptureLimit: meta.NoCaptureLimit,
		seed:           frand.Uint64n(math.MaxUint64),
		metrics:        metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	if e.episodes <= 0 && e.duration <= 0 {
		e.episodes = meta.Episodes
	}
	e.rng = rand.New(rand.NewSource(e.seed))
	return e
}

func (e *Engine) Root() *Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.root
}

func (e *Engine) TreeSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.root.size()
}

// Reset discards the tree and starts over from board.
func (e *Engine) Reset(board game.Board, sideToMove game.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.root = NewNode(board, sideToMove)
}

// Run performs iterations sequentially on the engine's own random source.
func (e *Engine) Run(iterations int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < iterations; i++ {
		e.iterate(e.rng)
	}
}

// ParallelRun performs exactly iterations cycles split across workers
// goroutines sharing the tree, and returns once every worker has finished.
func (e *Engine) ParallelRun(iterations, workers int) {
	if iterations <= 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_ = e.run(context.Background(), iterations, workers)
}

// RunContext is ParallelRun with cancellation checked before each iteration.
// With iterations <= 0 it runs until ctx is done and returns nil.
func (e *Engine) RunContext(ctx context.Context, iterations, workers int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.run(ctx, iterations, workers)
}

func (e *Engine) run(ctx context.Context, iterations, workers int) error {
	if workers < 1 {
		workers = 1
	}
	if iterations > 0 && workers > iterations {
		workers = iterations
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		quota := 0 // Unbounded
		if iterations > 0 {
			quota = iterations / workers
			if w < iterations%workers {
				quota++
			}
		}
		rng := rand.New(rand.NewSource(e.rng.Uint64()))

		g.Go(func() error {
			for i := 0; quota == 0 || i < quota; i++ {
				if err := ctx.Err(); err != nil {
					if iterations > 0 {
						return err
					}
					return nil
				}
				e.iterate(rng)
			}
			return nil
		})
	}
	return g.Wait()
}

// iterate runs one select, expand, simulate and backup cycle.
func (e *Engine) iterate(rng *rand.Rand) {
	node := e.root
	for {
		next, descend := node.selectOrExpand(rng, e.exploration)
		if next == node {
			break
		}
		node = next
		if !descend {
			break
		}
	}

	score, full := node.simulate(rng, e.cutoff, e.noCaptureLimit)
	if full {
		e.metrics.AddFullPlayout()
	}
	// The node's statistics belong to the player who moved into it
	node.backup(-score, true)
	e.metrics.AddEpisode()
}

// Search moves the root along path, or resets it to board when the tree
// cannot be reused, then spends the configured budget and returns the root
// policy.
func (e *Engine) Search(board game.Board, sideToMove game.Color, path []Segment) (map[game.Move]float64, metrics.SearchMetric) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// A root that has never been searched counts as a fresh tree
	reused := e.follow(path) && e.root.board == board && e.root.side == sideToMove &&
		(e.root.Visits() > 0 || !e.root.IsLeaf())
	if !reused {
		e.root = NewNode(board, sideToMove)
	}
	e.metrics.SetTreeReset(!reused)

	// Run simulations to collect statistics
	e.metrics.Start(e.goroutines, e.cutoff)
	if e.episodes > 0 {
		_ = e.run(context.Background(), e.episodes, e.goroutines)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), e.duration)
		_ = e.run(ctx, 0, e.goroutines)
		cancel()
	}

	treeSize := 0
	if e.collect {
		treeSize = e.root.size()
	}
	metric := e.metrics.Complete(treeSize)

	log.Debug().
		Str("side", sideToMove.String()).
		Bool("reused", reused).
		Int("visits", e.root.Visits()).
		Msg("search complete")

	return e.root.Policy(), metric
}

// GetBestMove returns the move of the most visited root child. It panics if
// the root has not been expanded.
func (e *Engine) GetBestMove() game.Move {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.root.mostVisited().lastMove
}

// AdvanceTree makes the child reached by move the new root and drops its
// siblings.
func (e *Engine) AdvanceTree(move game.Move) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.root.IsLeaf() {
		e.iterate(e.rng)
	}

	children := e.root.Children()
	i := utils.FindIndex(children, func(child *Node) bool { return child.lastMove == move })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownMove, move)
	}
	e.promote(children[i])
	return nil
}

// AdvanceTreeAuto advances to the most visited child and returns its move.
// A root without moves, such as a finished game, yields ErrNoChildren.
func (e *Engine) AdvanceTreeAuto() (game.Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.root.IsLeaf() {
		e.iterate(e.rng)
	}
	if e.root.IsLeaf() {
		return game.NoMove, ErrNoChildren
	}

	child := e.root.mostVisited()
	e.promote(child)
	return child.lastMove, nil
}

// Follow advances the root along path, checking each position hash. The tree
// is left untouched unless the whole path matches.
func (e *Engine) Follow(path []Segment) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.follow(path)
}

func (e *Engine) follow(path []Segment) bool {
	node := e.root
	for _, segment := range path {
		children := node.Children()
		i := utils.FindIndex(children, func(child *Node) bool { return child.lastMove == segment.Move })
		if i < 0 { // Node has not expanded this move
			return false
		}

		child := children[i]
		if hash := child.board.Hash(child.side); hash != segment.Hash {
			log.Warn().Msgf("node's position hash %d does not match segment's hash %d", hash, segment.Hash)
			return false
		}
		node = child
	}

	if node != e.root {
		e.promote(node)
	}
	return true
}

// promote detaches node from its parent and makes it the root. Every other
// branch of the old tree becomes unreachable.
func (e *Engine) promote(node *Node) {
	for ancestor := node.Parent(); ancestor != nil; ancestor = ancestor.Parent() {
		ancestor.Lock()
		ancestor.children = nil
		ancestor.Unlock()
	}

	node.Lock()
	node.parent = nil
	node.Unlock()
	e.root = node
}
