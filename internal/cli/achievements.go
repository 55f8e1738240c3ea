package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spiral-app/spiral/internal/daemon"
	"github.com/spiral-app/spiral/internal/domain"
)

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List achievements and their unlock state",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := daemon.New(cliVersion)
	if err != nil {
		return err
	}
	defer d.Close()

	records, err := d.Achievements.ListUnlocked()
	if err != nil {
		return err
	}
	unlocked := make(map[domain.AchievementID]domain.AchievementRecord, len(records))
	for _, rec := range records {
		unlocked[rec.ID] = rec
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tACHIEVEMENT\tDESCRIPTION\tUNLOCKED")
	for _, def := range domain.AchievementCatalog() {
		when := "—"
		if rec, ok := unlocked[def.ID]; ok {
			when = rec.UnlockedAt.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Emoji, def.Name, def.Description, when)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	n, total, err := d.Achievements.Progress()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d of %d unlocked\n", n, total)
	return nil
}
