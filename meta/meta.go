// meta/meta.go
package meta

// WIDTH and HEIGHT define the default board size.
const WIDTH = 8
const HEIGHT = 8

// NUM_GAMES defines the number of games in a session.
const NUM_GAMES = 1

// DEPTH defines the default search depth of a computer player.
const DEPTH = 6

// MAX_DEPTH caps the search depth accepted from the command line.
const MAX_DEPTH = 20

// EVALUATOR defines the default evaluator of a computer player.
const EVALUATOR = "corners"

// COMPUTER_DELAY defines the pause in milliseconds after a computer move.
const COMPUTER_DELAY = 0

// NODE_LIMIT defines the default number of live tree nodes, 0 for no limit.
const NODE_LIMIT = 0

// GO_ROUTINES defines the number of goroutines for experiments.
const GO_ROUTINES = 8

// ADDR defines the default listen address of the analysis server.
const ADDR = ":8080"
