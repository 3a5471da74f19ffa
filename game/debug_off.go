//go:build !othellodebug

package game

const debug = false
