package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *cli) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Probe live pages for component markers",
	}
	cmd.AddCommand(c.inspectPageCmd(), c.inspectComponentCmd())
	return cmd
}

func (c *cli) inspectPageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "page <url>",
		Short: "List the configured components present on one page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			app, _, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			found := app.Inspector.SearchByPage(ctx, args[0], app.Store.ListComponents(""))
			heading(out, args[0])
			if len(found) == 0 {
				fmt.Fprintln(out, warnStyle.Render("no configured components found"))
				return nil
			}
			for _, pc := range found {
				fmt.Fprintf(out, "%s %s (%s)\n", okStyle.Render("●"), pc.Name, pc.Selector)
				for k, v := range pc.Helpers {
					fmt.Fprintf(out, "    %s %v\n", labelStyle.Render(k+":"), v)
				}
				if pc.ParseError != "" {
					fmt.Fprintf(out, "    %s\n", warnStyle.Render("props unparseable: "+pc.ParseError))
				}
			}
			return nil
		},
	}
}

func (c *cli) inspectComponentCmd() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "component <selector>",
		Short: "Find the tracked pages that carry a component marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, _, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			selector := args[0]
			var helpers []string
			if def, ok := app.Store.ComponentBySelector(selector); ok {
				helpers = def.HelperProps
			}
			urls := app.Store.ListURLs(tenant)

			out := cmd.OutOrStdout()
			heading(out, fmt.Sprintf("%s on %d tracked pages", selector, len(urls)))
			hits := app.Inspector.SearchByComponent(ctx, selector, urls, helpers)
			if len(hits) == 0 {
				fmt.Fprintln(out, warnStyle.Render("not found on any tracked page"))
				return nil
			}
			for _, h := range hits {
				fmt.Fprintf(out, "%s [%d] %s\n", okStyle.Render("●"), h.ID, h.URL)
				for _, name := range helpers {
					fmt.Fprintf(out, "    %s %v\n", labelStyle.Render(name+":"), h.Helpers[name])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "only probe URLs of this tenant")
	return cmd
}
