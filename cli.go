// cli.go contains the non-interactive modes selected by command line flags.
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/kate-desktop/kate/core"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// listModels prints the installed models, marking the selected one.
func listModels(ctx context.Context, w io.Writer, s *core.Session) error {
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("error fetching models from %s: %w", s.Config().OllamaAPIURL, err)
	}

	records := s.Inventory().Records()
	if len(records) == 0 {
		fmt.Fprintln(w, "No models available to display.")
		return nil
	}

	selected := s.Inventory().Selection()
	table := newTable(w, []string{"", "Name", "Size", "Params", "Quant", "Family", "Modified"})
	for _, r := range records {
		marker := ""
		if r.Name == selected {
			marker = "*"
		}
		table.Append([]string{
			marker,
			r.Name,
			fmt.Sprintf("%.2fGB", sizeGB(r.Size)),
			r.Details.ParameterSize,
			r.Details.QuantizationLevel,
			r.Details.Family,
			modifiedDate(r),
		})
	}
	table.Render()
	return nil
}

// listCatalog prints the models advertised by the configured library.
func listCatalog(ctx context.Context, w io.Writer, s *core.Session, descWidth int) error {
	c := s.NewCatalog()
	defer c.Close()
	if err := s.LoadCatalog(ctx, c); err != nil {
		return fmt.Errorf("error loading the model library from %s: %w", s.Config().CatalogURL, err)
	}

	entries := c.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "The model library is empty.")
		return nil
	}
	table := newTable(w, []string{"Name", "Sizes", "Description"})
	for _, e := range entries {
		table.Append([]string{e.Name, strings.Join(e.Sizes, ","), truncate(e.Description, descWidth)})
	}
	table.Render()
	return nil
}

func listApps(w io.Writer, launcher *core.Launcher) {
	entries := launcher.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No apps configured. Add one with -app-add name=command.")
		return
	}
	table := newTable(w, []string{"Name", "Command"})
	for _, e := range entries {
		table.Append([]string{e.Name, e.Command})
	}
	table.Render()
}

// addApp adds or replaces the launcher entry described by spec.
func addApp(launcher *core.Launcher, spec string) error {
	name, command, err := parseAppSpec(spec)
	if err != nil {
		return err
	}
	if i := launcher.Find(name); i >= 0 {
		return launcher.Update(i, name, command)
	}
	return launcher.Add(name, command)
}

func removeApp(launcher *core.Launcher, name string) error {
	i := launcher.Find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrNoSuchEntry, name)
	}
	return launcher.Remove(i)
}

func launchApp(ctx context.Context, s *core.Session, name string) error {
	i := s.Launcher().Find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", core.ErrNoSuchEntry, name)
	}
	return s.Launch(ctx, i)
}
