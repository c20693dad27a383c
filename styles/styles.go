package styles

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named colour palette for the TUI and CLI tables.
type Theme struct {
	Name           string
	Header         string
	ItemName       []string
	ItemDate       string
	ItemSha        string
	ItemBorder     string
	Selected       string
	SelectedBg     string
	UserMessage    string
	BotMessage     string
	StatusAdding   string
	StatusDeleting string
	Success        string
	Warning        string
	Info           string
	Error          string
	HelpText       string
	Families       map[string]string
}

var themes = map[string]Theme{
	"default": {
		Name:           "default",
		Header:         "#AA1493",
		ItemName:       []string{"#FFFFFF", "#818BA9"},
		ItemDate:       "#AA1493",
		ItemSha:        "#AA1493",
		ItemBorder:     "#AA1493",
		Selected:       "#FFFFFF",
		SelectedBg:     "#5D2C7A",
		UserMessage:    "#00CED1",
		BotMessage:     "#FFB6C1",
		StatusAdding:   "#7FFF00",
		StatusDeleting: "#FF4500",
		Success:        "#00FF00",
		Warning:        "#FFD700",
		Info:           "#00BFFF",
		Error:          "#FF0000",
		HelpText:       "#818BA9",
		Families: map[string]string{
			"alpaca":     "#FF00FF",
			"bert":       "#FF40CB",
			"command-r":  "#FF69B4",
			"gemma":      "#FFB6C1",
			"llama":      "#FF1493",
			"nomic-bert": "#FF8C00",
			"phi2":       "#554AAF",
			"phi3":       "#554FFF",
			"qwen":       "#7FFF00",
			"qwen2":      "#AAE",
			"starcoder2": "#EE82EE",
			"granite":    "#00BFFF",
		},
	},
	"light": {
		Name:           "light",
		Header:         "#5A189A",
		ItemName:       []string{"#1B1B1B", "#4A4E69"},
		ItemDate:       "#5A189A",
		ItemSha:        "#6C757D",
		ItemBorder:     "#5A189A",
		Selected:       "#000000",
		SelectedBg:     "#E0C3FC",
		UserMessage:    "#006D77",
		BotMessage:     "#9D0208",
		StatusAdding:   "#2B9348",
		StatusDeleting: "#D00000",
		Success:        "#2B9348",
		Warning:        "#B08900",
		Info:           "#0077B6",
		Error:          "#D00000",
		HelpText:       "#6C757D",
		Families:       map[string]string{},
	},
}

var (
	currentTheme = themes["default"]
	themeMutex   sync.RWMutex
)

// InitTheme selects a theme by name. Unknown names keep the default theme
// and return an error.
func InitTheme(name string) error {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		currentTheme = themes["default"]
		return fmt.Errorf("unknown theme %q", name)
	}
	currentTheme = t
	return nil
}

// GetTheme returns the current theme
func GetTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

func colour(c string) lipgloss.Color { return lipgloss.Color(c) }

// Header styles
func HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colour(GetTheme().Header)).
		Bold(true)
}

// List item styles
func ItemNameStyle(index int) lipgloss.Style {
	names := GetTheme().ItemName
	return lipgloss.NewStyle().Foreground(colour(names[index%len(names)]))
}

func ItemDateStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colour(GetTheme().ItemDate)).
		Bold(true)
}

func ItemShaStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(colour(GetTheme().ItemSha)).
		Faint(true)
}

func ItemBorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.InnerHalfBlockBorder()).
		BorderForeground(colour(GetTheme().ItemBorder)).
		PaddingLeft(1)
}

func SelectedItemStyle() lipgloss.Style {
	theme := GetTheme()
	return lipgloss.NewStyle().
		Background(colour(theme.SelectedBg)).
		Foreground(colour(theme.Selected)).
		Bold(true)
}

// Size styles, by size in GB
func SizeStyle(size float64) lipgloss.Style {
	theme := GetTheme()
	switch {
	case size > 50:
		return lipgloss.NewStyle().Foreground(colour(theme.Error))
	case size > 20:
		return lipgloss.NewStyle().Foreground(colour(theme.Warning))
	case size > 10:
		return lipgloss.NewStyle().Foreground(colour(theme.Info))
	default:
		return lipgloss.NewStyle().Foreground(colour(theme.Success))
	}
}

// Quantization styles
func QuantStyle(level string) lipgloss.Style {
	theme := GetTheme()
	switch {
	case strings.Contains(level, "IQ"), strings.Contains(level, "Q2"):
		return lipgloss.NewStyle().Foreground(colour(theme.Error))
	case strings.Contains(level, "Q3"), strings.Contains(level, "Q6"), strings.Contains(level, "F16"):
		return lipgloss.NewStyle().Foreground(colour(theme.Warning))
	case strings.Contains(level, "Q4"), strings.Contains(level, "Q8"):
		return lipgloss.NewStyle().Foreground(colour(theme.Info))
	case strings.Contains(level, "Q5"):
		return lipgloss.NewStyle().Foreground(colour(theme.Success))
	default:
		return lipgloss.NewStyle().Foreground(colour(theme.ItemSha))
	}
}

// Model family colour
func FamilyStyle(family string) lipgloss.Style {
	theme := GetTheme()
	c, ok := theme.Families[family]
	if !ok {
		c = theme.HelpText
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colour(c))
}

// Operation status styles
func StatusStyle(status string) lipgloss.Style {
	theme := GetTheme()
	switch status {
	case "adding":
		return lipgloss.NewStyle().Foreground(colour(theme.StatusAdding)).Bold(true)
	case "deleting":
		return lipgloss.NewStyle().Foreground(colour(theme.StatusDeleting)).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colour(theme.HelpText))
}

// Transcript styles
func UserMessageStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().UserMessage)).Bold(true)
}

func BotMessageStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().BotMessage)).Bold(true)
}

// Message styles
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().Error))
}

func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().Success))
}

func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().Info))
}

func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().Warning))
}

// Help styles
func HelpTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colour(GetTheme().HelpText))
}
