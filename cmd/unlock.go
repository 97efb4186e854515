package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/coronalert/internal/config"
	"github.com/sells-group/coronalert/internal/entitlement"
)

var (
	unlockTxn     string
	unlockRestore bool
)

var unlockCmd = &cobra.Command{
	Use:   "unlock [txn-id...]",
	Short: "Unlock all locations after a purchase or restore",
	Long: "Records a completed purchase (--txn) or restores earlier transactions (--restore ID...) " +
		"and unlocks every location. Each transaction is applied once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeLocal); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, gate, err := openGate(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		out := cmd.OutOrStdout()
		if unlockRestore {
			ids := args
			if unlockTxn != "" {
				ids = append([]string{unlockTxn}, ids...)
			}
			n, err := gate.Restore(ctx, ids...)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Restored %d new transaction(s).\n", n)
		} else if err := gate.Grant(ctx, unlockTxn); err != nil {
			return err
		}

		return printEntitlement(cmd, out, gate)
	},
}

func printEntitlement(cmd *cobra.Command, out io.Writer, gate *entitlement.StoreGate) error {
	txns, err := gate.Transactions(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "All locations:\t%t\n", gate.IsEntitled(cmd.Context()))
	for _, t := range txns {
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\n", t.ID, t.Kind, t.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func init() {
	unlockCmd.Flags().StringVar(&unlockTxn, "txn", "", "transaction id from the payment provider (generated when empty)")
	unlockCmd.Flags().BoolVar(&unlockRestore, "restore", false, "restore the given transaction ids instead of recording a purchase")
	rootCmd.AddCommand(unlockCmd)
}
