// item_delegate.go contains the itemDelegate struct which is used to render the installed models in the list view.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kate-desktop/kate/core"
	"github.com/kate-desktop/kate/styles"
)

type itemDelegate struct {
	appModel *AppModel
}

func NewItemDelegate(appModel *AppModel) itemDelegate {
	return itemDelegate{appModel: appModel}
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(modelItem)
	if !ok {
		return
	}
	record := mi.record
	lifecycle := d.appModel.session.Lifecycle()
	status := lifecycle.StatusOf(record.Name)
	progress, hasProgress := lifecycle.ProgressOf(record.Name)
	active := core.Normalize(record.Name) == core.Normalize(d.appModel.session.Inventory().Selection())

	nameStyle := styles.ItemNameStyle(index)
	sizeStyle := styles.SizeStyle(sizeGB(record.Size))
	quantStyle := styles.QuantStyle(record.Details.QuantizationLevel)
	familyStyle := styles.FamilyStyle(record.Details.Family)
	dateStyle := styles.ItemDateStyle()
	paramsStyle := styles.ItemShaStyle()
	statusStyle := styles.StatusStyle(string(status))

	if index == m.Index() {
		nameStyle = nameStyle.Bold(true).
			BorderLeft(true).
			BorderStyle(lipgloss.InnerHalfBlockBorder()).
			BorderForeground(lipgloss.Color(styles.GetTheme().ItemBorder)).
			PaddingLeft(1)
	}
	if active {
		nameStyle = styles.SelectedItemStyle().Inherit(nameStyle)
	}

	nameWidth, sizeWidth, paramsWidth, quantWidth, familyWidth, modifiedWidth, statusWidth := calculateColumnWidths(m.Width())

	marker := "  "
	if active {
		marker = "● "
	}
	padding := 2
	name := nameStyle.Width(nameWidth).Render(truncate(marker+record.Name, nameWidth-padding-1))
	size := sizeStyle.Width(sizeWidth).Render(fmt.Sprintf("%*.2fGB", sizeWidth-padding-2, sizeGB(record.Size)))
	params := paramsStyle.Width(paramsWidth).Render(truncate(record.Details.ParameterSize, paramsWidth-padding))
	quant := quantStyle.Width(quantWidth).Render(truncate(record.Details.QuantizationLevel, quantWidth-padding))
	family := familyStyle.Width(familyWidth).Render(truncate(record.Details.Family, familyWidth-padding))
	modified := dateStyle.Width(modifiedWidth).Render(modifiedDate(record))
	state := statusStyle.Width(statusWidth).Render(statusLabel(status, progress, hasProgress))

	spacer := strings.Repeat(" ", padding)
	fmt.Fprint(w, strings.Join([]string{name, size, params, quant, family, modified, state}, spacer))
}

func modifiedDate(r core.ModelRecord) string {
	if r.ModifiedAt.IsZero() {
		return ""
	}
	return r.ModifiedAt.Format("2006-01-02")
}
