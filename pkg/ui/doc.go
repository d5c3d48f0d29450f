// Package ui prints console output for the vkscan CLI: colored messages,
// per-user scan progress, result tables and desktop notifications.
//
// Output goes to stdout unless SetOutput is called. Quiet mode drops
// everything except errors. The full-screen dashboard lives in package tui.
package ui
