// SPDX-License-Identifier: MPL-2.0

package taxonomy

type (
	// EventKind identifies what changed in the taxonomy.
	EventKind string

	// Event is delivered to subscribers after a successful mutation.
	Event struct {
		Kind EventKind
		// Name is the affected category (the new name for renames, the
		// destination for moves).
		Name string
		// OldName is set for EventCategoryRenamed.
		OldName string
		// SoftwareID is set for EventSoftwareMoved.
		SoftwareID string
	}

	// Subscriber receives taxonomy events. It is called synchronously after
	// the manager lock has been released, so it may call back into the manager.
	Subscriber func(Event)
)

const (
	EventCategoryAdded   EventKind = "category_added"
	EventCategoryRenamed EventKind = "category_renamed"
	EventCategoryRemoved EventKind = "category_removed"
	EventSoftwareMoved   EventKind = "software_moved"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string { return string(k) }
