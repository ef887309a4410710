// Package app is the terminal side of tomato: a bubbletea program that
// owns the alternate screen and raw mode, forwards key presses and button
// clicks to the engine, and repaints the snapshots the engine sends it.
//
// The engine never touches bubbletea directly. Program implements
// engine.Source and engine.Sink.
package app

import (
	"gitlab.com/tinyland/lab/tomato/pkg/timer"
)

// SnapshotMsg carries a copy of the shared timer into the bubbletea update
// loop for repainting.
type SnapshotMsg struct {
	Snap timer.Model
}
