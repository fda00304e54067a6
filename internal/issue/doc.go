// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error handling for the appshelf CLI.
//
// ActionableError carries the failed operation, the resource involved, and
// suggestions for fixing the problem. Issue pages are longer Markdown
// explanations keyed by Id and rendered with glamour; an ActionableError can
// point at one so the CLI shows it in verbose mode.
package issue
