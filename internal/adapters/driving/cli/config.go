package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/halcyon-tools/jirafetch/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jirafetch configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration setting",
	Long: `Updates one setting in the config file. Recognised keys:
base_url, query, export_format, export_base_name, export_dir,
max_results, page_size, tickets_per_file.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token [token]",
	Short: "Store the tracker API token",
	Long: `Stores the API token in the config file. Without an argument the
token is read from the terminal with echo disabled, or from stdin when
not attached to a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigSetToken,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetTokenCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := configfile.NewStore(configPath)
	if err != nil {
		return err
	}

	cfg := store.ExportConfig()

	cmd.Printf("Config file:      %s\n", store.Path())
	cmd.Printf("base_url:         %s\n", store.BaseURL())
	cmd.Printf("token:            %s\n", redactToken(store.Token()))
	cmd.Printf("query:            %s\n", cfg.Query)
	cmd.Printf("fields:           %s\n", strings.Join(cfg.Fields, ", "))
	cmd.Printf("max_results:      %d\n", cfg.MaxResults)
	cmd.Printf("page_size:        %d\n", cfg.PageSize)
	cmd.Printf("export_format:    %s\n", cfg.Format)
	cmd.Printf("export_base_name: %s\n", cfg.BaseName)
	cmd.Printf("export_dir:       %s\n", store.ExportDir())
	cmd.Printf("tickets_per_file: %d\n", cfg.TicketsPerFile)

	if len(cfg.GlobalExclusions) > 0 {
		cmd.Printf("global_exclusions: %s\n", strings.Join(cfg.GlobalExclusions, ", "))
	}
	for field, paths := range cfg.FieldExclusions {
		cmd.Printf("field_exclusions.%s: %s\n", field, strings.Join(paths, ", "))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := configfile.NewStore(configPath)
	if err != nil {
		return err
	}

	if err := store.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s.\n", args[0])
	return nil
}

func runConfigSetToken(cmd *cobra.Command, args []string) error {
	store, err := configfile.NewStore(configPath)
	if err != nil {
		return err
	}

	var token string
	switch {
	case len(args) == 1:
		token = args[0]
	case term.IsTerminal(int(os.Stdin.Fd())):
		cmd.Print("API token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		token = string(raw)
	default:
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if scanner.Scan() {
			token = strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read token: %w", err)
		}
	}

	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := store.SetToken(token); err != nil {
		return err
	}
	cmd.Println("Token stored.")
	return nil
}

// redactToken hides all but a short suffix of the token.
func redactToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
