// Package client talks to the gophnotes gRPC endpoint on behalf of the CLI.
//
// GRPCClient keeps the current login (username, session token and
// anti-forgery token) in memory, attaches the token to every call through an
// interceptor and echoes the anti-forgery token on state-changing calls.
// gRPC status codes are mapped to the sentinel errors of this package so
// callers can use errors.Is.
package client
