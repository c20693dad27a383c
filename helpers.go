// helpers.go contains formatting helpers shared by the TUI and the CLI tables.
package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kate-desktop/kate/core"
	"github.com/kate-desktop/kate/logging"
	"github.com/kate-desktop/kate/utils"
)

const (
	minNameWidth     = 24
	minSizeWidth     = 9
	minParamsWidth   = 7
	minQuantWidth    = 8
	minFamilyWidth   = 10
	minModifiedWidth = 11
	minStatusWidth   = 14
)

func sizeGB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024 * 1024)
}

func calculateColumnWidths(totalWidth int) (nameWidth, sizeWidth, paramsWidth, quantWidth, familyWidth, modifiedWidth, statusWidth int) {
	nameWidth = int(0.35 * float64(totalWidth))
	sizeWidth = int(0.08 * float64(totalWidth))
	paramsWidth = int(0.07 * float64(totalWidth))
	quantWidth = int(0.08 * float64(totalWidth))
	familyWidth = int(0.1 * float64(totalWidth))
	modifiedWidth = int(0.1 * float64(totalWidth))
	statusWidth = int(0.15 * float64(totalWidth))

	nameWidth = max(nameWidth, minNameWidth)
	sizeWidth = max(sizeWidth, minSizeWidth)
	paramsWidth = max(paramsWidth, minParamsWidth)
	quantWidth = max(quantWidth, minQuantWidth)
	familyWidth = max(familyWidth, minFamilyWidth)
	modifiedWidth = max(modifiedWidth, minModifiedWidth)
	statusWidth = max(statusWidth, minStatusWidth)

	// Shrink the name column when the minimums do not fit.
	rest := sizeWidth + paramsWidth + quantWidth + familyWidth + modifiedWidth + statusWidth
	if totalWidth < nameWidth+rest {
		nameWidth = max(totalWidth-rest, 8)
	}
	return
}

// truncate ensures the string fits within the specified width
func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return utils.Truncate(text, width)
}

func terminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		logging.DebugLogger.Debug().Err(err).Msg("could not read terminal size")
		return fallback
	}
	return width
}

// statusLabel describes a model's lifecycle state, with download progress
// when known.
func statusLabel(status core.OperationStatus, progress core.OperationProgress, hasProgress bool) string {
	switch status {
	case core.StatusAdding:
		if hasProgress && progress.Total > 0 {
			return fmt.Sprintf("adding %3.0f%%", progress.Percentage)
		}
		return "adding…"
	case core.StatusDeleting:
		return "deleting…"
	}
	return ""
}

// parseAppSpec splits "name=command" as accepted by -app-add and the apps view.
func parseAppSpec(spec string) (name, command string, err error) {
	name, command, ok := strings.Cut(spec, "=")
	if !ok {
		return "", "", fmt.Errorf("expected name=command, got %q", spec)
	}
	return strings.TrimSpace(name), strings.TrimSpace(command), nil
}
