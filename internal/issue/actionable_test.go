// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "open catalog"},
			expected: "failed to open catalog",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "open catalog", Resource: "/data/software.db"},
			expected: "failed to open catalog: /data/software.db",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "move item", Cause: errors.New("category not found")},
			expected: "failed to move item: category not found",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "restore catalog",
				Resource:  "backup.db",
				Cause:     errors.New("backup file not found"),
			},
			expected: "failed to restore catalog: backup.db: backup file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "scan", Cause: fmt.Errorf("walk: %w", cause)}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "scan"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("disk I/O error")
	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple error non-verbose",
			err:      &ActionableError{Operation: "load configuration"},
			contains: []string{"failed to load configuration"},
			excludes: []string{"•", "Error chain"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "add category",
				Resource:    "Dev/Tools",
				Suggestions: []string{"Remove the '/' character", "Run 'appshelf category list'"},
			},
			contains: []string{
				"failed to add category: Dev/Tools",
				"• Remove the '/' character",
				"• Run 'appshelf category list'",
			},
		},
		{
			name: "verbose shows chain",
			err: &ActionableError{
				Operation: "back up catalog",
				Cause:     fmt.Errorf("copy: %w", inner),
			},
			verbose:  true,
			contains: []string{"Error chain:", "1. copy: disk I/O error", "2. disk I/O error"},
		},
		{
			name: "non-verbose hides chain",
			err: &ActionableError{
				Operation: "back up catalog",
				Cause:     fmt.Errorf("copy: %w", inner),
			},
			excludes: []string{"Error chain:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("open catalog").
		WithResource("/tmp/x.db").
		WithSuggestion("first").
		WithSuggestions("second", "third").
		WithIssue(CatalogOpenFailedId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "open catalog" || ae.Resource != "/tmp/x.db" {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v, want 3", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("Build() lost the cause")
	}
	if iss := ae.Issue(); iss == nil || iss.Id() != CatalogOpenFailedId {
		t.Errorf("Issue() = %v, want catalog open issue", iss)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil interface", err)
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	cause := errors.New("cause")
	ae := WrapWithOperation(cause, "remove item")
	if ae.Operation != "remove item" || !errors.Is(ae, cause) {
		t.Errorf("WrapWithOperation() = %+v", ae)
	}
	if ae.Issue() != nil {
		t.Error("Issue() should be nil when no issue is linked")
	}
}
