// Package cli provides the Cobra command structure for vbl.
package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/linuxCowboy/vbl/internal/logging"
	"github.com/linuxCowboy/vbl/internal/ui"
	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Terminal gate errors.
var (
	errNotATerminal = errors.New("standard output is not a terminal")
	errTermTooSmall = errors.New("terminal is too small")
)

// errUsage marks a bad argument count. The usage text has already been
// printed by then and the process exits cleanly.
var errUsage = errors.New("usage printed")

// NewRootCommand creates the root vbl command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "vbl <file1> [file2]",
		Short: "A terminal hex viewer, differ and editor for huge binaries",
		Long: `vbl shows one or two binary files as hex and ASCII, 32 bytes per
line, and navigates them by page, offset, percentage or search.

With two files it highlights every differing byte position and jumps
between differences, skipping long identical regions in large blocks.
Files can be edited in place, including inserting and deleting bytes,
which rewrites the remainder of the file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
				return errUsage
			}
			return nil
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return runViewer(args, configPath, color)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func runViewer(args []string, configPath, color string) error {
	logger := logging.Default()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	width, height, err := terminalGeometry()
	if err != nil {
		return err
	}
	logger.Debug("terminal", "width", width, "height", height)

	capacity := ui.PaneCapacity(height, len(args) == 2)

	views := make([]*fileview.View, 0, len(args))
	defer func() {
		for _, v := range views {
			_ = v.Close()
		}
	}()
	for _, path := range args {
		v, err := fileview.Open(path, fileview.WithCapacity(capacity))
		if err != nil {
			return err
		}
		logger.Debug("opened",
			logging.FieldPath, v.Path(),
			logging.FieldSize, v.Size(),
		)
		views = append(views, v)
	}

	model := ui.New(views, cfg, ui.WithColorMode(color), ui.WithGeometry(width, height))
	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// terminalGeometry rejects runs outside an interactive terminal of at
// least the minimum size the hex layout needs.
func terminalGeometry() (int, int, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return 0, 0, errNotATerminal
	}
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errNotATerminal, err)
	}
	if width < config.MinWidth || height < config.MinHeight {
		return 0, 0, fmt.Errorf("%w: %dx%d, need at least %dx%d",
			errTermTooSmall, width, height, config.MinWidth, config.MinHeight)
	}
	return width, height, nil
}
