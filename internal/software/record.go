// SPDX-License-Identifier: MPL-2.0

package software

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidRecord is the sentinel error wrapped by InvalidRecordError.
var ErrInvalidRecord = errors.New("invalid software record")

// validate is shared by all records; validator.Validate is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

type (
	// ID is the opaque unique identifier of a Record.
	ID string

	// Fields is the flat, persistable view of a Record.
	Fields struct {
		ID          ID     `validate:"required"`
		Name        string `validate:"required"`
		FilePath    string `validate:"required"`
		Category    string `validate:"max=50"`
		Description string
		Version     string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Record is one cataloged piece of software.
	// Its identity and creation time are fixed at construction; every mutating
	// setter except SetIcon advances UpdatedAt.
	Record struct {
		fields Fields
		icon   string
		clock  Clock
	}

	// InvalidRecordError is returned by Validate when required fields are missing.
	// It wraps ErrInvalidRecord for errors.Is() compatibility.
	InvalidRecordError struct {
		ID          ID
		FieldErrors []error
	}

	// Option configures FromPath and New.
	Option func(*options)

	options struct {
		clock  Clock
		logger *log.Logger
	}
)

// String returns the string representation of the ID.
func (id ID) String() string { return string(id) }

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// WithClock sets the clock used for CreatedAt/UpdatedAt.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger used for best-effort metadata warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates an empty record with a fresh ID and both timestamps set to now.
func New(opts ...Option) Record {
	o := buildOptions(opts)
	now := o.clock.Now()
	return Record{
		fields: Fields{ID: NewID(), CreatedAt: now, UpdatedAt: now},
		clock:  o.clock,
	}
}

// FromPath creates a record for the file or bundle at path, deriving the
// name and icon hint from it. If path does not exist the record keeps the
// path but has no name, so IsValid reports false.
func FromPath(path string, opts ...Option) Record {
	o := buildOptions(opts)
	r := New(opts...)
	r.fields.FilePath = path

	if strings.TrimSpace(path) == "" {
		o.logger.Warn("invalid software path", "path", path)
		return r
	}
	if _, err := os.Stat(path); err != nil {
		o.logger.Warn("invalid software path", "path", path, "error", err)
		return r
	}

	r.fields.Name = NameFromPath(path)
	r.icon = IconFromPath(path)

	if isDesktopEntry(path) {
		entry, err := readDesktopEntry(path)
		if err != nil {
			o.logger.Debug("failed to read desktop entry", "path", path, "error", err)
		} else {
			entry.applyTo(&r)
		}
	}

	return r
}

// Restore rebuilds a record from persisted fields. It never touches disk.
func Restore(f Fields, opts ...Option) Record {
	o := buildOptions(opts)
	return Record{fields: f, clock: o.clock}
}

// ID returns the record identifier.
func (r Record) ID() ID { return r.fields.ID }

// Name returns the display name.
func (r Record) Name() string { return r.fields.Name }

// FilePath returns the absolute path of the executable, shortcut, or bundle.
func (r Record) FilePath() string { return r.fields.FilePath }

// Category returns the category name; empty means uncategorized.
func (r Record) Category() string { return r.fields.Category }

// Description returns the free-form description.
func (r Record) Description() string { return r.fields.Description }

// Version returns the version string.
func (r Record) Version() string { return r.fields.Version }

// Icon returns the best-effort icon hint (a file path or an icon theme name).
func (r Record) Icon() string { return r.icon }

// CreatedAt returns the creation timestamp.
func (r Record) CreatedAt() time.Time { return r.fields.CreatedAt }

// UpdatedAt returns the last-modification timestamp.
func (r Record) UpdatedAt() time.Time { return r.fields.UpdatedAt }

// Fields returns a copy of the persistable fields.
func (r Record) Fields() Fields { return r.fields }

// SetName overrides the derived name.
func (r *Record) SetName(name string) {
	r.fields.Name = name
	r.touch()
}

// SetCategory assigns the record to a category.
func (r *Record) SetCategory(category string) {
	r.fields.Category = category
	r.touch()
}

// SetDescription sets the description.
func (r *Record) SetDescription(description string) {
	r.fields.Description = description
	r.touch()
}

// SetVersion sets the version.
func (r *Record) SetVersion(version string) {
	r.fields.Version = version
	r.touch()
}

// SetIcon sets the icon hint. Icons are presentation data and do not count
// as a modification.
func (r *Record) SetIcon(icon string) {
	r.icon = icon
}

// touch advances UpdatedAt.
func (r *Record) touch() {
	c := r.clock
	if c == nil {
		c = SystemClock{}
	}
	r.fields.UpdatedAt = c.Now()
}

// IsZero reports whether r is the invalid sentinel returned by failed lookups.
func (r Record) IsZero() bool {
	return r.fields.ID == ""
}

// Validate checks the structural invariants (id, name, and path present)
// without consulting the filesystem.
func (r Record) Validate() error {
	err := validate.Struct(r.fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &InvalidRecordError{ID: r.fields.ID, FieldErrors: []error{err}}
	}
	fieldErrs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrs = append(fieldErrs, fmt.Errorf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return &InvalidRecordError{ID: r.fields.ID, FieldErrors: fieldErrs}
}

// IsValid reports whether the record has an id, a name, and a path, and the
// referenced file currently exists on disk.
func (r Record) IsValid() bool {
	if r.Validate() != nil {
		return false
	}
	_, err := os.Stat(r.fields.FilePath)
	return err == nil
}

// Equal reports whether r and other carry the same persisted fields.
// Timestamps are compared with time.Equal so location and monotonic
// readings do not matter.
func (r Record) Equal(other Record) bool {
	a, b := r.fields, other.fields
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.FilePath == b.FilePath &&
		a.Category == b.Category &&
		a.Description == b.Description &&
		a.Version == b.Version &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

// Error implements the error interface for InvalidRecordError.
func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid software record %q: %d field error(s)", e.ID, len(e.FieldErrors))
}

// Unwrap returns ErrInvalidRecord for errors.Is() compatibility.
func (e *InvalidRecordError) Unwrap() error { return ErrInvalidRecord }
