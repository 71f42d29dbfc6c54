package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Versuscsdota/MirrorCRM/internal/config"
	"github.com/Versuscsdota/MirrorCRM/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  mirrorcrm config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(os.Stdout, cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.API.BaseURL = promptValue(reader, "Schedule Service URL", cfg.API.BaseURL)
	cfg.API.Token = promptValue(reader, "API token (empty for none)", cfg.API.Token)
	cfg.API.Timeout = promptValue(reader, "Request timeout", cfg.API.Timeout)
	cfg.Grid.DayStart = promptValue(reader, "Day start", cfg.Grid.DayStart)
	cfg.Grid.DayEnd = promptValue(reader, "Day end", cfg.Grid.DayEnd)
	cfg.Grid.DefaultDuration = promptInt(reader, "Default slot length (minutes)", cfg.Grid.DefaultDuration)
	cfg.UI.CellsPerHour = promptInt(reader, "Cells per hour (0 = fit to width)", cfg.UI.CellsPerHour)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	token := "(none)"
	if cfg.API.Token != "" {
		token = "(set)"
	}
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[api]")
	fmt.Fprintf(w, "  base_url         = %s\n", cfg.API.BaseURL)
	fmt.Fprintf(w, "  token            = %s\n", token)
	fmt.Fprintf(w, "  timeout          = %s\n", cfg.API.Timeout)
	fmt.Fprintln(w, "\n[grid]")
	fmt.Fprintf(w, "  day_start        = %s\n", cfg.Grid.DayStart)
	fmt.Fprintf(w, "  day_end          = %s\n", cfg.Grid.DayEnd)
	fmt.Fprintf(w, "  px_per_minute    = %g\n", cfg.Grid.PxPerMinute)
	fmt.Fprintf(w, "  row_height       = %g\n", cfg.Grid.RowHeight)
	fmt.Fprintf(w, "  default_duration = %d\n", cfg.Grid.DefaultDuration)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  cells_per_hour   = %d\n", cfg.UI.CellsPerHour)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  format           = %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "  file             = %s\n", cfg.Log.File)
	}
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n >= 0 {
			return n
		}
		fmt.Printf("  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
