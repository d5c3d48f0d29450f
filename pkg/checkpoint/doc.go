// Package checkpoint saves and resumes the progress of a batch scan.
//
// A scan over many users can be interrupted by network failures, VK rate
// limits or a manual stop. The checkpoint records which user ids were fully
// stored so that the next `vkscan scan` skips them. Each database gets its own
// checkpoint, named by NameFor.
//
// Checkpoints are stored in platform-specific data directories:
//   - Linux: ~/.local/share/vkscan/checkpoints/
//   - macOS: ~/Library/Application Support/vkscan/checkpoints/
//   - Windows: %APPDATA%/vkscan/checkpoints/
//
// Files are written atomically and carry a format version.
package checkpoint
