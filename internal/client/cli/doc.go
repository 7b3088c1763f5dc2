// Package cli provides the interactive gophnotes command-line client.
//
// It wires configuration and the gRPC client into a small REPL: register or
// log in, then list, add, edit, delete and export your notes. The REPL is
// started via App.Run(ctx), which blocks until the user exits.
package cli
