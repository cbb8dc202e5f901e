package focus

// Builder accumulates tag pairs and finalizes them into a record's tag
// set. Optional tags go through SetIf, so a record never carries a
// half-built map when a conditional tag is skipped.
type Builder struct {
	tags map[string]string
}

// NewTagBuilder returns an empty builder
func NewTagBuilder() *Builder {
	return &Builder{tags: make(map[string]string)}
}

// Set stores a tag and returns the builder for chaining
func (b *Builder) Set(key, value string) *Builder {
	b.tags[key] = value
	return b
}

// SetIf stores a tag only when cond holds
func (b *Builder) SetIf(cond bool, key, value string) *Builder {
	if cond {
		b.tags[key] = value
	}
	return b
}

// SetNonEmpty stores a tag only when the value is non-empty
func (b *Builder) SetNonEmpty(key, value string) *Builder {
	return b.SetIf(value != "", key, value)
}

// Merge copies every pair from m into the builder
func (b *Builder) Merge(m map[string]string) *Builder {
	for k, v := range m {
		b.tags[k] = v
	}
	return b
}

// Build finalizes the tag set. The returned map is a copy, so further
// builder use never mutates an already-emitted record.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}
