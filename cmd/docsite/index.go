package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"docsite/internal/config"
	"docsite/internal/content"
	"docsite/internal/output"
)

func newIndexCmd(cfg *config.Config) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "index [-o output]",
		Short: "Print the search index as JSON",
		Long: `This command builds the content tree and prints its search index,
a JSON array of {level, page_title, title, content} objects.

If no output argument is specified, the index is written to standard output.`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _, err := projectConfig(cfg)
			if err != nil {
				return err
			}

			site, err := content.NewSite(cmd.Context(), project)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return err
				}
				defer func() {
					_ = f.Close()
				}()
				out = f
			}

			if err := output.WriteSearchIndex(out, site.Documents()); err != nil {
				return err
			}
			if f, ok := out.(*os.File); ok && outputFile != "" {
				return f.Close()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the index to this file")
	return cmd
}
