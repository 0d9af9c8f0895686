package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <audit-id>",
		Short: "Print the expanded fields of every section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.host(nil)
			if err != nil {
				return err
			}
			view, err := h.Open(cmd.Context(), args[0])
			if err != nil {
				return openError(args[0], err)
			}
			defer view.Close()

			m := view.Manager()
			fmt.Fprintf(a.out, "%s (%s)\n", view.Title(), view.AuditID())
			for _, key := range m.Sections() {
				layout := string(m.Layout(key))
				if rows := m.RowCount(key); rows > 0 {
					layout += " rows=" + strconv.Itoa(rows)
				}
				fmt.Fprintf(a.out, "\n[%s] %s\n", key, layout)

				tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "FIELD\tTYPE\tREQUIRED\tSTATE\tVALUE")
				for _, field := range m.Fields(key) {
					c, ok := m.Get(key, field.Name)
					if !ok {
						continue
					}
					state := "enabled"
					switch {
					case c.Disabled():
						state = "disabled"
					case c.Readonly():
						state = "readonly"
					}
					typ := string(field.Spec.Type)
					if typ == "" {
						typ = "text"
					}
					fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%v\n", field.Name, typ, c.Required(), state, c.Value())
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
