//go:build othellodebug

package game

// debug enables coordinate assertions in the bit primitives.
const debug = true
