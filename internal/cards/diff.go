package cards

import (
	"fmt"
	"slices"
	"strings"
)

// Changeset The changed fields between two versions of a card.
type Changeset struct {
	changes map[string]Changes
}

func NewDiff() *Changeset {
	return &Changeset{
		changes: map[string]Changes{},
	}
}

type Changes struct {
	From interface{}
	To   interface{}
}

func (c *Changeset) Add(field string, changed Changes) {
	c.changes[field] = changed
}

func (c *Changeset) HasChanges() bool {
	return len(c.changes) > 0
}

// Fields returns the names of all changed fields, sorted.
func (c *Changeset) Fields() []string {
	fields := make([]string, 0, len(c.changes))
	for k := range c.changes {
		fields = append(fields, k)
	}
	slices.Sort(fields)

	return fields
}

func (c *Changeset) Get(field string) Changes {
	return c.changes[field]
}

func (c *Changeset) String() string {
	var sb strings.Builder
	for i, f := range c.Fields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		ch := c.changes[f]
		sb.WriteString(fmt.Sprintf("%s: %v -> %v", f, ch.From, ch.To))
	}

	return sb.String()
}

// compare adds a change for the field if the values differ.
func compare[T comparable](c *Changeset, field string, from, to T) {
	if from != to {
		c.Add(field, Changes{From: from, To: to})
	}
}
