// SPDX-License-Identifier: MPL-2.0

package taxonomy

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/appshelf/appshelf/internal/settings"
)

const (
	// AllSoftware is the built-in aggregate category.
	AllSoftware = "All Software"
	// Uncategorized is the built-in default category.
	Uncategorized = "Uncategorized"

	// SettingsKey is the settings key holding the user category list.
	SettingsKey = "categories"
)

var builtIns = []string{AllSoftware, Uncategorized}

type (
	// Manager is the category taxonomy. All methods are safe for concurrent use.
	Manager struct {
		mu          sync.Mutex
		store       settings.Store
		logger      *log.Logger
		categories  []string
		counts      map[string]int
		subscribers []Subscriber
	}

	// Option configures a Manager.
	Option func(*Manager)
)

// WithLogger sets the manager logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager seeded with the built-ins followed by the user
// categories saved in store. Saved entries that duplicate a built-in or each
// other are skipped.
func New(store settings.Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		logger:     log.Default(),
		categories: slices.Clone(builtIns),
		counts:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.load()
	return m
}

func (m *Manager) load() {
	if m.store == nil {
		return
	}
	for _, name := range settings.StringList(m.store, SettingsKey) {
		if IsBuiltIn(name) || slices.Contains(m.categories, name) {
			continue
		}
		m.categories = append(m.categories, name)
	}
	m.logger.Debug("loaded categories", "count", len(m.categories))
}

// IsBuiltIn reports whether name is one of the protected built-in categories.
func IsBuiltIn(name string) bool {
	return slices.Contains(builtIns, name)
}

// DefaultCategory returns the category unassigned items belong to.
func (m *Manager) DefaultCategory() string { return Uncategorized }

// IsBuiltIn reports whether name is a built-in category.
func (m *Manager) IsBuiltIn(name string) bool { return IsBuiltIn(name) }

// Validate checks name against the naming rules. See the package-level Validate.
func (m *Manager) Validate(name string) error { return Validate(name) }

// Subscribe registers fn to receive events for subsequent mutations.
func (m *Manager) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// List returns the categories in order: built-ins first, then user
// categories in creation order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.categories)
}

// Exists reports whether name is a known category.
func (m *Manager) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.categories, name)
}

// Count returns the cached item count for name, 0 if unknown.
func (m *Manager) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

// Add creates a user category. Surrounding whitespace is trimmed.
func (m *Manager) Add(name string) error {
	if err := Validate(name); err != nil {
		m.logger.Warn("invalid category name", "name", name, "error", err)
		return err
	}
	name = strings.TrimSpace(name)

	m.mu.Lock()
	if slices.Contains(m.categories, name) {
		m.mu.Unlock()
		m.logger.Warn("category already exists", "name", name)
		return fmt.Errorf("add %q: %w", name, ErrCategoryExists)
	}

	err := m.mutate(func() {
		m.categories = append(m.categories, name)
		m.counts[name] = 0
	})
	subs := m.subscribers
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Info("added category", "name", name)
	notify(subs, Event{Kind: EventCategoryAdded, Name: name})
	return nil
}

// Rename renames a user category, carrying its cached count to the new name.
func (m *Manager) Rename(oldName, newName string) error {
	m.mu.Lock()
	if !slices.Contains(m.categories, oldName) {
		m.mu.Unlock()
		m.logger.Warn("category not found", "name", oldName)
		return fmt.Errorf("rename %q: %w", oldName, ErrCategoryNotFound)
	}
	if IsBuiltIn(oldName) {
		m.mu.Unlock()
		m.logger.Warn("refusing to rename built-in category", "name", oldName)
		return fmt.Errorf("rename %q: %w", oldName, ErrBuiltInCategory)
	}
	if err := Validate(newName); err != nil {
		m.mu.Unlock()
		m.logger.Warn("invalid category name", "name", newName, "error", err)
		return err
	}
	newName = strings.TrimSpace(newName)
	if slices.Contains(m.categories, newName) {
		m.mu.Unlock()
		m.logger.Warn("category already exists", "name", newName)
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrCategoryExists)
	}

	err := m.mutate(func() {
		m.categories[slices.Index(m.categories, oldName)] = newName
		if n, ok := m.counts[oldName]; ok {
			delete(m.counts, oldName)
			m.counts[newName] = n
		}
	})
	subs := m.subscribers
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Info("renamed category", "from", oldName, "to", newName)
	notify(subs, Event{Kind: EventCategoryRenamed, Name: newName, OldName: oldName})
	return nil
}

// Remove deletes a user category. Items referencing it are not reassigned.
func (m *Manager) Remove(name string) error {
	if IsBuiltIn(name) {
		m.logger.Warn("refusing to remove built-in category", "name", name)
		return fmt.Errorf("remove %q: %w", name, ErrBuiltInCategory)
	}

	m.mu.Lock()
	if !slices.Contains(m.categories, name) {
		m.mu.Unlock()
		m.logger.Warn("category not found", "name", name)
		return fmt.Errorf("remove %q: %w", name, ErrCategoryNotFound)
	}

	err := m.mutate(func() {
		m.categories = slices.DeleteFunc(m.categories, func(c string) bool { return c == name })
		delete(m.counts, name)
	})
	subs := m.subscribers
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Info("removed category", "name", name)
	notify(subs, Event{Kind: EventCategoryRemoved, Name: name})
	return nil
}

// MoveSoftwareToCategory records that softwareID now belongs to category
// and increments that category's count. The source category is not known
// to the manager, so its count is left as is.
func (m *Manager) MoveSoftwareToCategory(softwareID, category string) error {
	m.mu.Lock()
	if !slices.Contains(m.categories, category) {
		m.mu.Unlock()
		m.logger.Warn("destination category not found", "name", category, "software_id", softwareID)
		return fmt.Errorf("move %s to %q: %w", softwareID, category, ErrCategoryNotFound)
	}
	m.counts[category]++
	subs := m.subscribers
	m.mu.Unlock()

	m.logger.Info("moved software", "software_id", softwareID, "category", category)
	notify(subs, Event{Kind: EventSoftwareMoved, Name: category, SoftwareID: softwareID})
	return nil
}

// mutate applies change and persists the user categories. If saving fails
// the in-memory state is restored. Callers must hold m.mu.
func (m *Manager) mutate(change func()) error {
	prevCategories := slices.Clone(m.categories)
	prevCounts := maps.Clone(m.counts)

	change()

	if err := m.save(); err != nil {
		m.categories = prevCategories
		m.counts = prevCounts
		m.logger.Error("failed to save categories", "error", err)
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// save writes the non-built-in categories. Callers must hold m.mu.
func (m *Manager) save() error {
	if m.store == nil {
		return nil
	}
	user := slices.DeleteFunc(slices.Clone(m.categories), IsBuiltIn)
	return settings.SetStringList(m.store, SettingsKey, user)
}

func notify(subs []Subscriber, ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}
