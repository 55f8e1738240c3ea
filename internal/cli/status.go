package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiral-app/spiral/internal/daemon"
	"github.com/spiral-app/spiral/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's doom score and streak",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	stat, err := d.Monitor.TodayStats()
	if err != nil {
		return err
	}

	fmt.Printf("Doom score:   %d/10 — %s\n", stat.DoomScore, stat.ScoreMessage())
	fmt.Printf("Screen time:  %s (doom: %s)\n",
		domain.FormatDuration(stat.TotalScreenTime),
		domain.FormatDuration(stat.DoomScrollTime))
	fmt.Printf("Streak:       %d days (best %d)\n", stat.CurrentStreak, stat.LongestStreak)
	if stat.Interventions > 0 {
		fmt.Printf("Today:        %d interventions, %d breaks, %d ignored\n",
			stat.Interventions, stat.SuccessfulBreaks, stat.Ignored)
	}
	if stat.TimeSaved > 0 {
		fmt.Printf("Time saved:   %s\n", domain.FormatDuration(stat.TimeSaved))
	}

	mode, _ := d.DB.GetSetting("intervention_mode")
	style, _ := d.DB.GetSetting("roast_style")
	if mode != "" {
		fmt.Printf("Mode:         %s\n", domain.InterventionMode(mode).DisplayName())
	}
	if style != "" {
		fmt.Printf("Style:        %s\n", style)
	}
	return nil
}
