// Package provider implements the external translation capability the
// engine invokes when no stored segment is similar enough to reuse.
package provider

import "github.com/ZaguanLabs/transmem"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = transmem.Provider
