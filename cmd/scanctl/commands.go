package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"reagent-tracker/internal/core/httpclient"
	"reagent-tracker/internal/core/logger"
	"reagent-tracker/internal/features/units/client"
	"reagent-tracker/internal/features/units/domain"
)

type rootOptions struct {
	server   string
	actor    string
	timeout  time.Duration
	logLevel string
}

func (o *rootOptions) client() *client.Client {
	hc := httpclient.NewClient(o.timeout, httpclient.WithHeader("X-Actor", o.actor))
	return client.New(o.server, hc)
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "scanctl",
		Short:        "Scanning station client for the reagent tracker",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init("development", opts.logLevel)
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", "http://localhost:8080", "tracker API base URL")
	flags.StringVar(&opts.actor, "actor", "", "name recorded in the audit trail")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "client log level")

	root.AddCommand(
		newIntakeCmd(opts),
		newCheckoutCmd(opts),
		newSubmitCmd(opts),
		newListCmd(opts),
	)
	return root
}

func newIntakeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "intake <code>",
		Short: "Register a scanned unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.client().Intake(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printUnit(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newCheckoutCmd(opts *rootOptions) *cobra.Command {
	var place string
	cmd := &cobra.Command{
		Use:   "checkout <code>",
		Short: "Dispatch a registered unit to a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.client().Checkout(cmd.Context(), args[0], place)
			if err != nil {
				return err
			}
			printUnit(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVar(&place, "place", "", "destination place")
	_ = cmd.MarkFlagRequired("place")
	return cmd
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <code>",
		Short: "Mark a checked out unit as submitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.client().Submit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printUnit(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var list client.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units in a view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := opts.client().List(cmd.Context(), list)
			if err != nil {
				return err
			}
			printTable(cmd.OutOrStdout(), units)
			return nil
		},
	}
	cmd.Flags().StringVar(&list.View, "view", "home", "all, home, intake, egress, pending_submission, submitted")
	cmd.Flags().StringVar(&list.Sort, "sort", "", "sort field")
	cmd.Flags().StringVar(&list.Order, "order", "asc", "asc or desc")
	return cmd
}

func printUnit(w io.Writer, u *domain.Unit) {
	fmt.Fprintf(w, "%s  %s  lot=%s  exp=%s  size=%s", u.Key, u.Status, u.LotNumber, u.ExpirationDate, u.ProductSize)
	if u.Place != "" {
		fmt.Fprintf(w, "  place=%s", u.Place)
	}
	fmt.Fprintln(w)
}

func printTable(w io.Writer, units []domain.Unit) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tLOT\tEXPIRES\tSTATUS\tPLACE\tUPDATED")
	for _, u := range units {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			u.Key, u.ProductSize, u.LotNumber, u.ExpirationDate, u.Status, u.Place,
			u.LastUpdated.Local().Format(time.DateTime))
	}
	_ = tw.Flush()
}

