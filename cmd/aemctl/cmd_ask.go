package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) askCmd() *cobra.Command {
	var useRAG, showResults bool
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, _, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question cannot be empty")
			}
			out := cmd.OutOrStdout()

			if useRAG {
				ans, err := app.RAG.Ask(ctx, question)
				if err != nil {
					return err
				}
				fmt.Fprint(out, markdown(ans.Answer, c.plain))
				fmt.Fprintln(out)
				heading(out, "Sources")
				for _, s := range ans.Context {
					src := s.Source
					if src == "" {
						src = "knowledge base"
					}
					fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(src+":"), truncate(s.PageContent, 80))
				}
				return nil
			}

			resp, err := app.Assistant.Run(ctx, question)
			if err != nil {
				return err
			}
			field(out, "intent", resp.Intent)
			fmt.Fprint(out, markdown(resp.Answer, c.plain))
			fmt.Fprintln(out)
			if showResults && resp.Results != nil {
				heading(out, "Results")
				return printJSON(out, resp.Results)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useRAG, "rag", false, "use the knowledge-base flow instead of the routed assistant")
	cmd.Flags().BoolVar(&showResults, "results", false, "print the structured results as JSON")
	return cmd
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
