// Package server holds the HTTP surface configuration.
//
// The serve command exposes the probes over HTTP (see feature/probe); this
// package only defines its listen port and the optional API key.
package server
