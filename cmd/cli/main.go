package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	apperrors "gosubgroup/internal/errors"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosubgroup",
		Short: "Score subgroups of a dataset with interestingness measures",
		Long: `gosubgroup scores candidate subgroups against a target concept.

Configuration is read from the environment (and a .env file) first:
- QF_NAME, QF_A, QF_DIRECTION, QF_MIN_INSTANCES, QF_STAT
- DATA_FILE or DATABASE_URL + DATABASE_DRIVER + DATA_QUERY
- TARGET (attribute=value; empty selects frequent itemsets), WEIGHT_ATTR
- LOG_MODE=dev|prod|silent
Flags override the environment.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(
		newScoreCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if apperrors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "[%s] %v\n", apperrors.GetCode(err), err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
