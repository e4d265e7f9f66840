package tui

import "github.com/getto-dev/smeta/internal/catalog"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// catalogLoadedMsg carries the loaded catalog (fetched, cached, or built-in)
type catalogLoadedMsg struct {
	catalog *catalog.Catalog
}

// exportDoneMsg reports the result of an invoice export
type exportDoneMsg struct {
	path string
	err  error
}
