package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appaem "github.com/bryanwahyu/aem-assistant/internal/application/aem"
	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
)

func (c *cli) storeCmd() *cobra.Command {
	var tenant string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Show the seeded configuration store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := appaem.NewService(domaem.DefaultSeed())
			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, store.Snapshot())
			}

			snap := store.Snapshot()
			heading(out, "AEM store")
			field(out, "environment", snap.SelectedEnvironment)
			field(out, "tenant", snap.SelectedTenant)
			fmt.Fprintln(out)

			heading(out, "Tenants")
			for _, t := range store.Tenants() {
				fmt.Fprintf(out, "  %-5s %-24s %s\n", t.ID, t.Value, t.Domain)
			}
			fmt.Fprintln(out)

			heading(out, "URLs")
			for _, u := range store.ListURLs(tenant) {
				fmt.Fprintf(out, "  %3d  %-5s %s\n", u.ID, u.Tenant, u.Value)
			}
			fmt.Fprintln(out)

			heading(out, "Components")
			for _, comp := range store.ListComponents(tenant) {
				fmt.Fprintf(out, "  %3d  %-5s %-22s %-14s %v\n", comp.ID, comp.Tenant, comp.Name, comp.Selector, comp.HelperProps)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "only show URLs and components of this tenant")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw snapshot as JSON")
	return cmd
}
