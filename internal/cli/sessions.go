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
	sessionsCmd.Flags().StringVar(&sessionsDay, "day", "", "Day to list (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsDay string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions for a day",
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if sessionsDay != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sessionsDay, time.Local)
		if err != nil {
			return fmt.Errorf("parse --day: %w", err)
		}
		day = parsed
	}

	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	sessions, err := d.DB.ListSessionsByDay(day)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Printf("No sessions recorded on %s.\n", domain.Day(day).Format("2006-01-02"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tAPP\tDURATION\tSCROLLS\tINTERRUPTED\tRESPONSE")
	for _, s := range sessions {
		interrupted := ""
		if s.WasInterrupted {
			interrupted = "yes"
			if s.WasIgnored {
				interrupted = "ignored"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.StartTime.Format("15:04"),
			s.AppID,
			domain.FormatDuration(s.Duration),
			s.ScrollEvents,
			interrupted,
			s.UserResponse.DisplayName(),
		)
	}
	return w.Flush()
}
