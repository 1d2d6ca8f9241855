package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursechat/internal/connectors/github"
)

var (
	ingestGitHub string
	ingestWatch  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Ingest course documents into the index",
	Long: `Parses course script files (.txt), chunks and embeds their content
and adds them to the search index. Courses already in the index are
skipped, so re-running ingest is safe.

Use --github owner/repo/path to fetch the documents from a GitHub
repository into the directory first. Use --watch to keep running and
ingest files as they appear.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestGitHub, "github", "", "fetch documents from a GitHub repo (owner/repo[/path])")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "keep watching the directory for new documents")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured: set an embedding provider with 'coursechat config'")
	}

	dir := args[0]
	ctx := cmd.Context()

	if ingestGitHub != "" {
		ref, err := github.ParseRef(ingestGitHub)
		if err != nil {
			return err
		}

		var token string
		if configStore != nil {
			token = configStore.GetString("github.token")
		}

		fetcher := github.NewFetcher(ctx, token)
		files, err := fetcher.FetchDocs(ctx, ref, dir)
		if err != nil {
			return fmt.Errorf("fetch from GitHub: %w", err)
		}
		cmd.Printf("Fetched %d documents from %s\n", len(files), ingestGitHub)
	}

	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("docs directory: %w", err)
	}

	added, skipped, err := ingestService.IngestDirectory(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d courses (%d already indexed)\n", added, skipped)

	if ingestWatch {
		return runWatch(cmd, dir)
	}
	return nil
}
