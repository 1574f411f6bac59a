package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"mindcare/internal/domain"

	"github.com/spf13/cobra"
)

var plansJSON bool

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Print the subscription plan catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans := domain.Plans()
		out := cmd.OutOrStdout()
		if plansJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(plans)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCLIENTS\tSCHEDULING\tREMINDERS\tTEMPLATES\tEVOLUTION")
		for _, p := range plans {
			f := p.Features
			limit := "unlimited"
			if !f.MaxClients.Unlimited() {
				limit = fmt.Sprint(f.MaxClients.Max())
			}
			fmt.Fprintf(tw, "%s\t%s\tR$ %.2f\t%s\t%t\t%t\t%t\t%t\n",
				p.ID, p.Name, p.Price, limit, f.Scheduling, f.Reminders, f.Templates, f.Evolution)
		}
		return tw.Flush()
	},
}

func init() {
	plansCmd.Flags().BoolVar(&plansJSON, "json", false, "print as JSON")
}
