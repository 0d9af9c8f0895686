package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	auditform "github.com/goliatone/go-auditform"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bundled and custom audit forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host(nil)
			if err != nil {
				return err
			}
			type entry struct{ id, kind string }
			var entries []entry
			for _, id := range auditform.BundledAudits() {
				entries = append(entries, entry{id: id, kind: "bundled"})
			}
			for _, id := range h.Registry().List() {
				entries = append(entries, entry{id: id, kind: "custom"})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
			for _, e := range entries {
				fmt.Fprintf(a.out, "%s\t%s\n", e.id, e.kind)
			}
			return nil
		},
	}
}
