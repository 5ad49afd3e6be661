package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/ceobserve/dom"
	"github.com/iw2rmb/ceobserve/internal/config"
	"github.com/iw2rmb/ceobserve/internal/inspect"
)

//go:embed demo.html
var demoHTML string

var demoCmd = &cobra.Command{
	Use:   "demo [file.html]",
	Short: "Edit a local document in the terminal inspector",
	Long: `Edit a local document in the terminal inspector.

The file must contain an element with the ve-ce-documentNode class. Without
a file a built-in document is used.

Controls:
  ←/→         - Move caret
  ↑/↓         - Previous / next text node
  ctrl+v      - Paste HTML
  ctrl+s      - Split text node at caret
  ctrl+d      - Enable / disable observer
  ctrl+t      - Start / stop polling
  ctrl+p      - Poll once
  ctrl+l      - Log focused node as markdown
  esc, ctrl+c - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

var demoLogFile string

func init() {
	demoCmd.Flags().StringVar(&demoLogFile, "log-file", "", "write logs here instead of discarding them while the inspector owns the terminal")
	rootCmd.AddCommand(demoCmd)
}

func loadDocument(path string) (*dom.Document, error) {
	if path == "" {
		return dom.ParseString(demoHTML, dom.WithLogger(logger))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	defer f.Close()
	return dom.Parse(f, dom.WithLogger(logger))
}

// demoModel adapts the inspector component to a Bubble Tea program.
type demoModel struct {
	inspect inspect.Model
}

func (m demoModel) Init() tea.Cmd { return m.inspect.Init() }

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyCtrlC || k.Type == tea.KeyEsc) {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.inspect, cmd = m.inspect.Update(msg)
	return m, cmd
}

func (m demoModel) View() string { return m.inspect.View() }

func runDemo(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	// The inspector owns the terminal, so logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if demoLogFile != "" {
		f, err := os.Create(demoLogFile)
		if err != nil {
			return fmt.Errorf("demo: %w", err)
		}
		defer f.Close()
		w = f
	}
	logger = newLogger(w, appConfig.Level(), verbose)

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	settings := appConfig.ObserverSettings(logger)
	m := inspect.New(inspect.Config{
		Doc:           doc,
		PollInterval:  settings.PollInterval,
		PositionDelay: settings.PositionDelay,
		Style:         inspect.DefaultStyle(),
		Logger:        logger,
	})
	p := tea.NewProgram(demoModel{inspect: m}, tea.WithAltScreen())

	if configPath != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			err := config.Watch(ctx, configPath, logger, func(c *config.Config) {
				p.Send(inspect.PollIntervalMsg(c.ObserverSettings(logger).PollInterval))
			})
			if err != nil {
				logger.Warn("demo: config watch stopped", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	return nil
}
