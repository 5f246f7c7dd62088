// Package render turns an aggregated transcript into printable documents.
//
// Renderers are pure: they read only their inputs (and, for DOCX, the
// template file) and never touch the store.
package render

import "errors"

// ErrRenderFailure is returned when a document could not be produced in full.
// No partial output is ever returned alongside it.
var ErrRenderFailure = errors.New("render failure")
