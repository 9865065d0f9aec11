package domain

import (
	"fmt"
	"strings"
)

// StateKind enumerates the lifecycle states of the graph cache.
type StateKind int

const (
	// StateMissingFiles means one or more input files are absent.
	StateMissingFiles StateKind = iota
	// StateNeedsImport means the cache must be (re)built.
	StateNeedsImport
	// StateImporting means an import job has been submitted and readiness is awaited.
	StateImporting
	// StateReady means the graph is loaded and queryable.
	StateReady
	// StateError means the session ended with a failure.
	StateError
)

// String returns the name of the state kind.
func (k StateKind) String() string {
	switch k {
	case StateMissingFiles:
		return "missing-files"
	case StateNeedsImport:
		return "needs-import"
	case StateImporting:
		return "importing"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(k))
	}
}

// CacheState is a point-in-time projection of the cache lifecycle.
type CacheState struct {
	Kind         StateKind
	MissingFiles []string
	Message      string
}

// MissingFilesState returns a MissingFiles state listing the absent inputs.
func MissingFilesState(names []string) CacheState {
	return CacheState{Kind: StateMissingFiles, MissingFiles: names}
}

// NeedsImportState returns a NeedsImport state.
func NeedsImportState() CacheState {
	return CacheState{Kind: StateNeedsImport}
}

// ImportingState returns an Importing state.
func ImportingState() CacheState {
	return CacheState{Kind: StateImporting}
}

// ReadyState returns a Ready state.
func ReadyState() CacheState {
	return CacheState{Kind: StateReady}
}

// ErrorState returns an Error state carrying the given message.
func ErrorState(msg string) CacheState {
	if msg == "" {
		msg = "unexpected error"
	}
	return CacheState{Kind: StateError, Message: msg}
}

// Terminal reports whether no further states follow this one in a session.
func (s CacheState) Terminal() bool {
	return s.Kind == StateReady || s.Kind == StateError || s.Kind == StateMissingFiles
}

// String renders the state for display.
func (s CacheState) String() string {
	switch s.Kind {
	case StateMissingFiles:
		return "missing files: " + strings.Join(s.MissingFiles, ", ")
	case StateError:
		return "error: " + s.Message
	default:
		return s.Kind.String()
	}
}
