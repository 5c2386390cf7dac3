package searcher

import "math"

// Hyperparameters for MCTS

const DefaultExploration = math.Sqrt2

const Win = 1.0   // Score for a won playout
const Loss = -Win // Score for a lost playout (negate from opponent perspective)
const Draw = 0.0

// VirtualLoss is added to a child's selection score while a worker is below it.
const VirtualLoss = -1.0

// ucb1 = q/n + c*sqrt(ln(N)/n) + virtual loss
func ucb1(total float64, visits, parentVisits int, c, virtualLoss float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	n := float64(visits)
	exploration := 0.0
	if parentVisits > 0 {
		exploration = c * math.Sqrt(math.Log(float64(parentVisits))/n)
	}
	return total/n + exploration + virtualLoss
}
