package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# Song Deck Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All SONGDECK_ variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: SONGDECK_<SECTION>_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<section>-<setting>\n")
	content.WriteString("#\n\n")

	generateCredentialsSection(&content)
	writeSection(&content, cmd, "Catalog Configuration",
		"catalog-base-url", "catalog-account", "spotify-client-id", "spotify-client-secret")
	writeSection(&content, cmd, "Audio Resolution", "video-search-url", "extraction-url")
	writeSection(&content, cmd, "Application", "language", "max-cards")
	writeSection(&content, cmd, "HTTP Server Configuration", "server-host", "server-port")
	writeSection(&content, cmd, "Logging Configuration",
		"log-level", "log-file", "log-max-size-mb", "log-max-backups", "log-max-age-days")

	return content.String()
}

func generateCredentialsSection(content *strings.Builder) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Credentials (read as-is, without prefix)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("NOCODE_API_KEY=                              # Catalog proxy API key\n")
	content.WriteString("YOUTUBE_API_KEY=                             # YouTube Data API key\n")
	content.WriteString("\n")
}

func writeSection(content *strings.Builder, cmd *cobra.Command, title string, flags ...string) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	fmt.Fprintf(content, "# %s\n", title)
	content.WriteString("# -----------------------------------------------------------------------------\n")
	fmt.Fprintf(content, "# CLI: --%s\n", strings.Join(flags, ", --"))

	for _, name := range flags {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			continue
		}
		fmt.Fprintf(content, "%s=%s    # %s\n", flagToEnvVar(name), f.DefValue, f.Usage)
	}
	content.WriteString("\n")
}

func flagToEnvVar(flagName string) string {
	return "SONGDECK_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
