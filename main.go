// main.go
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/kate-desktop/kate/config"
	"github.com/kate-desktop/kate/core"
	"github.com/kate-desktop/kate/logging"
	"github.com/kate-desktop/kate/styles"
)

var (
	Version string // Version will be set during the build process
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	listFlag := flag.Bool("l", false, "List installed models and exit")
	catalogFlag := flag.Bool("catalog", false, "List the models available in the library and exit")
	appsFlag := flag.Bool("apps", false, "List configured apps and exit")
	appAddFlag := flag.String("app-add", "", "Add or replace an app, given as name=command")
	appRmFlag := flag.String("app-rm", "", "Remove the app with this name")
	launchFlag := flag.String("launch", "", "Open the app with this name and exit")
	versionFlag := flag.Bool("v", false, "Print the version and exit")

	flag.Parse()

	if *versionFlag {
		fmt.Println(Version)
		os.Exit(0)
	}

	logger, err := core.NewLogger(cfg.LogLevel, cfg.LogFilePath)
	if err != nil {
		fmt.Println("Error initializing logging:", err)
		os.Exit(1)
	}

	if err := styles.InitTheme(cfg.Theme); err != nil {
		logging.InfoLogger.Warn().Err(err).Msg("using the default theme")
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	renderer, err := newRenderer(cfg, width)
	if err != nil {
		fmt.Println("Error creating renderer:", err)
		os.Exit(1)
	}

	session, err := core.NewSession(core.SessionConfig{
		Config:   cfg,
		Logger:   logger,
		Renderer: renderer,
	})
	if err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("failed to start session")
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	ctx := session.Context()
	switch {
	case *listFlag:
		err = listModels(ctx, os.Stdout, session)
	case *catalogFlag:
		err = listCatalog(ctx, os.Stdout, session, max(terminalWidth(120)-40, 20))
	case *appsFlag:
		listApps(os.Stdout, session.Launcher())
	case *appAddFlag != "":
		err = addApp(session.Launcher(), *appAddFlag)
	case *appRmFlag != "":
		err = removeApp(session.Launcher(), *appRmFlag)
	case *launchFlag != "":
		err = launchApp(ctx, session, *launchFlag)
	default:
		err = runTUI(session, width, height)
	}
	session.Close()

	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

// newRenderer sizes the terminal renderer to the window. A nil renderer lets
// the session pick one from the config.
func newRenderer(cfg config.Config, width int) (core.Renderer, error) {
	if cfg.Renderer != config.RendererTerminal {
		return nil, nil
	}
	style := "dark"
	if cfg.Theme == "light" {
		style = "light"
	}
	return core.NewTerminalRenderer(max(width-4, 20), style)
}

func runTUI(session *core.Session, width, height int) error {
	app := NewAppModel(session, width, height)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.ErrorLogger.Error().Err(err).Msg("TUI exited with an error")
		return err
	}

	// Throw a warning if the users terminal cannot display colours
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("Warning: Your terminal does not support colours. Please consider using a terminal that does.")
	}
	return nil
}
