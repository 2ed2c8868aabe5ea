package records

// ToggleSelection flips the selection of a loaded record. Unknown IDs are
// ignored.
func (c *Controller) ToggleSelection(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selection[id]; ok {
		delete(c.selection, id)
		return
	}
	if c.indexOf(id) >= 0 {
		c.selection[id] = struct{}{}
	}
}

// SelectAll selects every loaded record.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		c.selection[r.ID] = struct{}{}
	}
}

// DeselectAll clears the selection.
func (c *Controller) DeselectAll() {
	c.ClearSelection()
}

// ClearSelection clears the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[string]struct{})
}

// IsSelected reports whether the record is selected.
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selection[id]
	return ok
}

// Selected returns the selected IDs in load order.
func (c *Controller) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

// SelectionCount returns the number of selected records.
func (c *Controller) SelectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selection)
}

// AllSelected reports whether at least one record is loaded and every loaded
// record is selected.
func (c *Controller) AllSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records) > 0 && len(c.selection) == len(c.records)
}

// SomeSelected reports a partial selection.
func (c *Controller) SomeSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.selection) > 0 && len(c.selection) < len(c.records)
}

func (c *Controller) selectedLocked() []string {
	out := make([]string, 0, len(c.selection))
	for _, r := range c.records {
		if _, ok := c.selection[r.ID]; ok {
			out = append(out, r.ID)
		}
	}
	return out
}

// pruneSelection keeps the selection a subset of the loaded records.
func (c *Controller) pruneSelection() {
	if len(c.selection) == 0 {
		return
	}
	loaded := make(map[string]struct{}, len(c.records))
	for _, r := range c.records {
		loaded[r.ID] = struct{}{}
	}
	for id := range c.selection {
		if _, ok := loaded[id]; !ok {
			delete(c.selection, id)
		}
	}
}

func (c *Controller) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
