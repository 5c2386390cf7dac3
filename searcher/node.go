package searcher

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"xiangqi/game"
	"xiangqi/meta"
)

// Node is one position in the search tree. The board and side never change
// after construction; children and statistics are guarded by the embedded
// mutex. Statistics are kept from the perspective of the player who moved
// into the node, so a parent can compare its children directly.
type Node struct {
	sync.Mutex
	board       game.Board
	side        game.Color
	parent      *Node
	children    []*Node
	lastMove    game.Move
	visits      int
	totalScore  float64
	virtualLoss float64
}

// NewNode returns a detached root for board with side to move.
func NewNode(board game.Board, side game.Color) *Node {
	return newNode(nil, board, side, game.NoMove)
}

func newNode(parent *Node, board game.Board, side game.Color, move game.Move) *Node {
	return &Node{
		board:    board,
		side:     side,
		parent:   parent,
		lastMove: move,
	}
}

func (n *Node) IsLeaf() bool {
	n.Lock()
	defer n.Unlock()

	return len(n.children) == 0
}

func (n *Node) IsRoot() bool {
	n.Lock()
	defer n.Unlock()

	return n.parent == nil
}

// UCB1 returns the selection score of n as seen from its parent.
func (n *Node) UCB1(explorationWeight float64) float64 {
	parentVisits := 0
	if p := n.Parent(); p != nil {
		parentVisits = p.Visits()
	}

	n.Lock()
	defer n.Unlock()

	return n.score(parentVisits, explorationWeight)
}

// score must be called with n locked.
func (n *Node) score(parentVisits int, c float64) float64 {
	return ucb1(n.totalScore, n.visits, parentVisits, c, n.virtualLoss)
}

// SelectBestChild returns the child with the highest UCB1 score using the
// default exploration weight, and applies a virtual loss to it. The first
// maximal child wins; among tied scores a child with less virtual loss in
// flight is preferred, which only matters while workers run concurrently.
func (n *Node) SelectBestChild() *Node {
	return n.selectBestChild(DefaultExploration)
}

func (n *Node) selectBestChild(c float64) *Node {
	n.Lock()
	defer n.Unlock()

	if len(n.children) == 0 {
		panic("node has no children")
	}

	var best *Node
	bestScore := math.Inf(-1)
	bestLoss := 0.0
	for _, child := range n.children {
		child.Lock()
		score := child.score(n.visits, c)
		loss := child.virtualLoss
		child.Unlock()

		// Ties go to the child with fewer workers below it
		if best == nil || score > bestScore || (score == bestScore && loss > bestLoss) {
			best, bestScore, bestLoss = child, score, loss
		}
	}

	best.applyLoss()
	return best
}

// Expand adds one child per legal move. It does nothing if n already has
// children.
func (n *Node) Expand() {
	n.Lock()
	defer n.Unlock()

	n.expand()
}

// expand must be called with n locked.
func (n *Node) expand() {
	if len(n.children) > 0 {
		return
	}

	moves := n.board.LegalMoves(n.side)
	n.children = make([]*Node, 0, len(moves))
	next := n.side.Opponent()
	for _, move := range moves {
		board := n.board.ApplyMove(move.From, move.To)
		n.children = append(n.children, newNode(n, board, next, move))
	}
}

// selectOrExpand descends one level. A node with children picks its best
// child; a non-terminal leaf is expanded and a uniformly random new child is
// returned. The second result reports whether descent may continue.
func (n *Node) selectOrExpand(rng *rand.Rand, c float64) (*Node, bool) {
	n.Lock()
	if len(n.children) > 0 {
		n.Unlock()
		return n.selectBestChild(c), true
	}
	defer n.Unlock()

	if n.board.Classify(n.side).IsOver() { // Terminal node
		return n, false
	}

	n.expand()
	if len(n.children) == 0 { // No legal moves
		return n, false
	}

	child := n.children[rng.Intn(len(n.children))]
	child.applyLoss()
	return child, false
}

func (n *Node) applyLoss() {
	n.Lock()
	defer n.Unlock()

	n.virtualLoss += VirtualLoss
}

func (n *Node) reverseLoss() {
	n.virtualLoss -= VirtualLoss
}

// Simulate plays uniformly random moves from a private copy of the board and
// scores the outcome for the side to move at n: +1 for a win, -1 for a loss,
// 0 for a draw or a playout that did not resolve.
func (n *Node) Simulate(rng *rand.Rand) float64 {
	score, _ := n.simulate(rng, meta.Cutoff, meta.NoCaptureLimit)
	return score
}

func (n *Node) simulate(rng *rand.Rand, cutoff, noCaptureLimit int) (float64, bool) {
	result := playout(n.board, n.side, rng, cutoff, noCaptureLimit)
	if !result.IsOver() {
		return Draw, false
	}
	return scoreFor(result, n.side), true
}

// Backpropagate adds score to n and alternately negated score to each
// ancestor up to the root.
func (n *Node) Backpropagate(score float64) {
	n.backup(score, false)
}

// backup climbs to the root, optionally reversing the virtual loss applied
// on the way down.
func (n *Node) backup(score float64, reverse bool) {
	node := n
	for node != nil {
		node.Lock()
		if reverse && node.parent != nil { // Non-root node
			node.reverseLoss()
		}
		node.visits++
		node.totalScore += score
		parent := node.parent
		node.Unlock()

		score = -score
		node = parent
	}
}

func (n *Node) LastMove() game.Move {
	return n.lastMove
}

func (n *Node) Board() game.Board {
	return n.board
}

func (n *Node) SideToMove() game.Color {
	return n.side
}

func (n *Node) Visits() int {
	n.Lock()
	defer n.Unlock()

	return n.visits
}

func (n *Node) TotalScore() float64 {
	n.Lock()
	defer n.Unlock()

	return n.totalScore
}

func (n *Node) VirtualLoss() float64 {
	n.Lock()
	defer n.Unlock()

	return n.virtualLoss
}

func (n *Node) Parent() *Node {
	n.Lock()
	defer n.Unlock()

	return n.parent
}

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	n.Lock()
	defer n.Unlock()

	return append([]*Node(nil), n.children...)
}

// Policy maps each expanded move to the visit count of its child.
func (n *Node) Policy() map[game.Move]float64 {
	children := n.Children()
	policy := make(map[game.Move]float64, len(children))
	for _, child := range children {
		policy[child.lastMove] = float64(child.Visits())
	}
	return policy
}

// size counts n and its descendants.
func (n *Node) size() int {
	total := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		stack = append(stack, node.Children()...)
	}
	return total
}

// mostVisited returns the child with the most visits, the first one on ties.
func (n *Node) mostVisited() *Node {
	children := n.Children()
	if len(children) == 0 {
		panic("node has no children")
	}

	best := children[0]
	maxVisits := best.Visits()
	for _, child := range children[1:] {
		if v := child.Visits(); v > maxVisits {
			maxVisits = v
			best = child
		}
	}
	return best
}
