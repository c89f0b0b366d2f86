// Package jot is the composition root for the jot note manager.
//
// It wires the core note repository to a storage backend and a codec using
// the hexagonal layout of the pkg tree:
//
//   - pkg/core holds the Note model, the NoteRepository and the ports
//     (ByteStore, Codec) it depends on.
//   - pkg/adapters provides ByteStore implementations: one file per slot
//     (fs), one row per slot (sqlite) and an in-memory fake (memory).
//   - pkg/codec encodes note sequences as JSON or YAML.
//   - pkg/presenter drives the Notes and Story screens through a View.
//
// Notes live in two slots. New notes go to "active-notes"; completing a
// note moves it to "archive-notes" and completing it again moves it back.
//
// Usage:
//
//	nb, err := jot.Open(ctx, "~/.jot", jot.WithBackend("sqlite"))
//	if err != nil {
//		return err
//	}
//	defer nb.Close()
//
//	err = nb.Repository.Create(ctx, jot.NewNote("Buy milk", ""))
package jot
