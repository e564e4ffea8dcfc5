package tag

// Compound is an ordered mapping from names to values. Names are unique within
// a Compound; the order of insertion is preserved and is the order used for
// display and encoding.
//
// The zero value is an empty Compound ready to use.
type Compound struct {
	entries []Entry
	index   map[string]int
}

// Entry is a name-value pair in a Compound.
type Entry struct {
	Name  string
	Value Value
}

// NewCompound builds a Compound from the given entries. A repeated name
// replaces the earlier value but keeps its position.
func NewCompound(entries ...Entry) *Compound {
	c := &Compound{}
	for _, e := range entries {
		c.Set(e.Name, e.Value)
	}
	return c
}

// E is a shorthand for constructing an Entry.
func E(name string, v Value) Entry { return Entry{name, v} }

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// At returns the i-th entry in insertion order.
func (c *Compound) At(i int) (string, Value) {
	e := c.entries[i]
	return e.Name, e.Value
}

// Get returns the value with the given name.
func (c *Compound) Get(name string) (Value, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

// Set sets the value with the given name. An existing entry is updated in
// place; a new name is appended at the end.
func (c *Compound) Set(name string, v Value) {
	if i, ok := c.index[name]; ok {
		c.entries[i].Value = v
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, Entry{name, v})
}

// Delete removes the entry with the given name, and returns whether it
// existed. Entries after it keep their relative order.
func (c *Compound) Delete(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	copy(c.entries[i:], c.entries[i+1:])
	c.entries[len(c.entries)-1] = Entry{}
	c.entries = c.entries[:len(c.entries)-1]
	delete(c.index, name)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].Name] = j
	}
	return true
}

// Names returns the names of all entries in order.
func (c *Compound) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of all entries in order.
func (c *Compound) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}
