package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/aem-assistant/internal/application/ingest"
	"github.com/bryanwahyu/aem-assistant/internal/infra/docpipe"
)

func (c *cli) ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Extract, chunk and index a document into the configured knowledge index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			app, _, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Ingest.Ingest(ctx, ingest.Upload{
				Filename:    filepath.Base(args[0]),
				ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
				Data:        data,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			style := okStyle
			if !res.Indexed {
				style = warnStyle
			}
			fmt.Fprintln(out, style.Render(res.Message))
			field(out, "document", res.DocumentID)
			field(out, "chunks", res.Chunks)
			if res.ObjectURL != "" {
				field(out, "archived", res.ObjectURL)
			}
			return nil
		},
	}
}

func (c *cli) chunkCmd() *cobra.Command {
	var size, overlap int
	cmd := &cobra.Command{
		Use:   "chunk <file>",
		Short: "Show how a document would be split, without indexing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			text, kind, err := docpipe.NewExtractor().Extract(filepath.Base(args[0]), mime.TypeByExtension(filepath.Ext(args[0])), data)
			if err != nil {
				return err
			}
			windows, err := docpipe.Splitter{Size: size, Overlap: overlap}.Split(text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			heading(out, filepath.Base(args[0]))
			field(out, "kind", kind)
			field(out, "chars", len([]rune(text)))
			field(out, "chunks", len(windows))
			for _, w := range windows {
				fmt.Fprintf(out, "  #%-3d @%-6d %s\n", w.Index, w.Start, truncate(w.Text, 60))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 1000, "chunk size in characters")
	cmd.Flags().IntVar(&overlap, "overlap", 200, "overlap between consecutive chunks")
	return cmd
}
