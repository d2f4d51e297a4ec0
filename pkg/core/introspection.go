package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Stage       Stage  `json:"stage"`
	Identifiers int    `json:"identifiers"`
	RowsScanned int    `json:"rows_scanned"`
	RowsMatched int    `json:"rows_matched"`
	Groups      int    `json:"groups"`
	SourceType  string `json:"source_type"`
	LastError   string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	srcType := "unknown"
	if s.src != nil {
		srcType = "source"
		if comp, ok := s.src.(introspection.Component); ok {
			srcType = comp.ComponentType()
		}
	}

	st := ServiceState{
		Stage:       s.stage,
		Identifiers: s.identifiers,
		RowsScanned: s.scanned,
		RowsMatched: s.matched,
		Groups:      s.groups,
		SourceType:  srcType,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "join-service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
