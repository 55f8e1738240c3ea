package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiral-app/spiral/internal/daemon"
	"github.com/spiral-app/spiral/internal/domain"
)

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "How many days of history to show")
	rootCmd.AddCommand(statsCmd)
}

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily history",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	since := domain.Day(time.Now()).AddDate(0, 0, -(statsDays - 1))
	stats, err := d.DB.ListStats(since)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No history yet. Go scroll something (or better, don't).")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSCORE\tSCREEN\tDOOM\tINTERVENTIONS\tIGNORED\tSTREAK")
	for _, st := range stats {
		fmt.Fprintf(w, "%s\t%d/10\t%s\t%s\t%d\t%d\t%d\n",
			st.Date.Format("2006-01-02"),
			st.DoomScore,
			domain.FormatDuration(st.TotalScreenTime),
			domain.FormatDuration(st.DoomScrollTime),
			st.Interventions,
			st.Ignored,
			st.CurrentStreak,
		)
	}
	return w.Flush()
}
