package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/report"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/sheet"
)

type ledgerFlags struct {
	groups string
	title  string
}

func (f *ledgerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.groups, "groups", "", "CSV membership matrix of groups (overrides a Groups sheet)")
	cmd.Flags().StringVar(&f.title, "title", "", "summary title (default: sheet or file name)")
}

func (f *ledgerFlags) summarize(path string) (*calculator.Summary, error) {
	ledger, err := sheet.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if f.groups != "" {
		file, err := os.Open(f.groups)
		if err != nil {
			return nil, fmt.Errorf("failed to open groups: %w", err)
		}
		defer file.Close()
		if ledger.Groups, err = sheet.ReadGroups(file); err != nil {
			return nil, fmt.Errorf("%s: %w", f.groups, err)
		}
	}

	title := f.title
	if title == "" {
		title = ledger.Title
	}
	return calculator.Summarize(title, ledger.Records, ledger.Groups)
}

func newSummarizeCmd() *cobra.Command {
	var (
		flags    ledgerFlags
		htmlOut  string
		allSteps bool
	)

	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Print balances and the transfers that settle them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := flags.summarize(args[0])
			if err != nil {
				return err
			}

			steps := summary.Report.Steps()
			if !allSteps {
				steps = steps[len(steps)-2:]
			}
			if err := report.RenderText(cmd.OutOrStdout(), summary.Title, steps); err != nil {
				return err
			}

			if htmlOut != "" {
				if err := writeHTML(htmlOut, summary); err != nil {
					return err
				}
			}

			if err := summary.Settlement.Err(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&htmlOut, "html", "", "also write the full HTML report to this file")
	cmd.Flags().BoolVar(&allSteps, "all", false, "print every pipeline step, not just balances and clearing")
	return cmd
}

func writeHTML(path string, summary *calculator.Summary) error {
	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := renderer.Render(f, summary.Title, summary.Report.Steps()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newCarryOverCmd() *cobra.Command {
	var (
		flags ledgerFlags
		to    string
		date  string
	)

	cmd := &cobra.Command{
		Use:   "carryover FILE",
		Short: "Write the opening rows of the next period as CSV",
		Long: "Summarizes FILE and prints the next period's ledger: one row per open\n" +
			"transfer followed by the recurring records from RECURRING_RECORDS.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			summary, err := flags.summarize(args[0])
			if err != nil {
				return err
			}
			if to == "" || to == summary.Title {
				return errors.New("--to must name a period other than the one being closed")
			}

			records := service.CarryOver(summary.Settlement.Transfers, summary.Title, to, date, cfg)
			return writeCSV(cmd.OutOrStdout(), records)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "name of the new period (required)")
	cmd.Flags().StringVar(&date, "date", "", "date written on every row")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func writeCSV(w io.Writer, records []*models.PaymentRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Date", "Item", "Writer", "Recipient", "Amount"})
	for _, r := range records {
		_ = cw.Write([]string{r.Date, r.Item, r.Creditor, r.Debtors, r.Amount})
	}
	cw.Flush()
	return cw.Error()
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token MEMBER",
		Short: "Mint a bearer token for MEMBER using JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}
			token, err := jwtManager.Generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
