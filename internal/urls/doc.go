// Package urls centralizes documentation URLs printed in troubleshooting output.
//
// Keeping them in one place makes it easy to update links when the
// documentation site is reorganized.
package urls
