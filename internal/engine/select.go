package engine

import "fmt"

// Toggle flips the selection of the named category, persists it, and
// returns the new value.
func (e *Engine) Toggle(name string) (bool, error) {
	e.selMu.Lock()
	defer e.selMu.Unlock()

	e.mu.Lock()
	i := e.indexOf(name)
	if i < 0 {
		e.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	v := !e.categories[i].Selected
	e.mu.Unlock()

	return v, e.setSelected(name, v)
}

// SetSelected sets the selection of the named category and persists it.
// Changes made while cleaning apply to the next clean only.
func (e *Engine) SetSelected(name string, selected bool) error {
	e.selMu.Lock()
	defer e.selMu.Unlock()
	return e.setSelected(name, selected)
}

// setSelected must be called with selMu held, so the store sees changes in
// the order they were applied in memory. A failed write is rolled back.
func (e *Engine) setSelected(name string, selected bool) error {
	e.mu.Lock()
	i := e.indexOf(name)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	prev := e.categories[i].Selected
	e.categories[i].Selected = selected
	e.mu.Unlock()

	if err := e.store.Set(name, selected); err != nil {
		e.mu.Lock()
		if i := e.indexOf(name); i >= 0 {
			e.categories[i].Selected = prev
		}
		e.mu.Unlock()
		e.log.Warn().Err(err).Str("category", name).Msg("failed to persist selection")
		return err
	}
	if prev != selected {
		e.publish(SelectionChanged{Name: name, Selected: selected})
	}
	return nil
}

// SelectAll selects or deselects every category.
func (e *Engine) SelectAll(selected bool) error {
	for _, c := range e.Categories() {
		if err := e.SetSelected(c.Name, selected); err != nil {
			return err
		}
	}
	return nil
}

// AllSelected reports whether every category is selected. It is false
// when there are no categories.
func (e *Engine) AllSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.categories) == 0 {
		return false
	}
	for _, c := range e.categories {
		if !c.Selected {
			return false
		}
	}
	return true
}

func (e *Engine) indexOf(name string) int {
	for i, c := range e.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}
