// model.go contains the list items shown by the models, catalog and apps views.
package main

import (
	"fmt"
	"strings"

	"github.com/kate-desktop/kate/core"
)

// modelItem is an installed model in the models view.
type modelItem struct {
	record core.ModelRecord
}

func (m modelItem) FilterValue() string {
	return m.record.Name
}

// catalogItem is a library entry with the size the user intends to pull.
type catalogItem struct {
	entry   core.CatalogEntry
	sizeIdx int
}

func (c catalogItem) Title() string {
	if size := c.size(); size != "" {
		return fmt.Sprintf("%s  ‹%s›", c.entry.Name, size)
	}
	return c.entry.Name
}

func (c catalogItem) Description() string {
	if len(c.entry.Sizes) == 0 {
		return c.entry.Description
	}
	return fmt.Sprintf("%s [%s]", c.entry.Description, strings.Join(c.entry.Sizes, ", "))
}

func (c catalogItem) FilterValue() string {
	return c.entry.Name
}

func (c catalogItem) size() string {
	if len(c.entry.Sizes) == 0 {
		return ""
	}
	return c.entry.Sizes[c.sizeIdx%len(c.entry.Sizes)]
}

// pullName is the reference handed to the backend, e.g. "llama3.1:8b".
func (c catalogItem) pullName() string {
	if size := c.size(); size != "" {
		return c.entry.Name + ":" + size
	}
	return c.entry.Name
}

// appItem is a launcher entry in the apps view.
type appItem struct {
	entry   core.LauncherEntry
	running bool
}

func (a appItem) Title() string {
	if a.running {
		return a.entry.Name + " (running)"
	}
	return a.entry.Name
}

func (a appItem) Description() string {
	return a.entry.Command
}

func (a appItem) FilterValue() string {
	return a.entry.Name
}
