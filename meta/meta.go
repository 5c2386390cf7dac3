// meta/meta.go
package meta

// Goroutines defines the number of search workers.
const Goroutines = 8

// Episodes defines the number of MCTS iterations per move.
const Episodes = 2000

// Cutoff defines the maximum number of half-moves in one rollout.
const Cutoff = 200

// NoCaptureLimit ends a rollout as a draw after this many consecutive
// half-moves without a capture.
const NoCaptureLimit = 40

// MaxTurns adjudicates a refereed game as a draw.
const MaxTurns = 300
