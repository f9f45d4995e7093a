package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"essay-mentor/pkg/registry"
)

func newRegistryCmd(opts *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and edit the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "registry", "", "registry file (config registry_path when empty)")

	load := func() (*registry.ActivityRegistry, string, error) {
		p := path
		if p == "" {
			cfg, err := opts.load()
			if err != nil {
				return nil, "", err
			}
			p = cfg.RegistryPath
		}
		reg, err := registry.LoadRegistry(p)
		return reg, p, err
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check every activity definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, p, err := load()
			if err != nil {
				return err
			}
			problems := reg.Validate()
			out := cmd.OutOrStdout()
			for _, pr := range problems {
				_, _ = fmt.Fprintf(out, "  x %s\n", pr)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%s: %d problem(s)", p, len(problems))
			}
			_, _ = fmt.Fprintf(out, "%s: %d activities valid\n", p, len(reg.Activities))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, _, err := load()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tTASK TYPE\tSTATUS\tVERSION\tTIMEOUT\tRETRIES")
			for _, a := range reg.Activities {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					a.ID, a.TaskType, a.ImplementationStatus, a.Version, a.Timeout, a.Retries)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Update one field of an activity and save the registry",
		Long:  "Fields: " + strings.Join(registry.EditableFields, ", "),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, p, err := load()
			if err != nil {
				return err
			}
			if err := reg.UpdateField(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := reg.Save(p, time.Now()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s.%s = %s\n", args[0], args[1], args[2])
			return nil
		},
	})

	return cmd
}
