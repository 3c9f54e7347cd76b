package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chartloom/chartloom-cli/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved analysis sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		ids, err := store.List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("No saved sessions")
			return nil
		}
		for _, id := range ids {
			st, err := store.Load(id)
			if err != nil {
				fmt.Printf("%s\t(unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("%s\t%s\t%d filters\t%s\n", st.ID, st.SourcePath, len(st.Filters), st.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved session's report and selections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		st, err := store.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("id: %s\n", st.ID)
		fmt.Printf("source: %s\n", st.SourcePath)
		if st.Group != "" {
			fmt.Printf("group: %s (entities: %v, metrics: %v)\n", st.Group, st.Entities, st.Metrics)
		}
		for _, p := range st.Filters {
			fmt.Printf("filter: %s %s %q\n", p.Column, p.Op, p.Value)
		}
		if st.Report != nil {
			fmt.Printf("\n# %s\n\n%s\n", st.Report.Headline, st.Report.Summary)
			for _, ins := range st.Report.Insights {
				fmt.Printf("  - %s\n", ins)
			}
		}
		return nil
	},
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume <id>",
	Short: "Re-open a saved session against its source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		st, err := store.Load(args[0])
		if err != nil {
			return err
		}
		ds, err := loadDataset(cmd.Context(), st.SourcePath)
		if err != nil {
			return err
		}
		sess := session.New()
		sess.SetDataset(ds)
		sess.Restore(st)
		fmt.Printf("✓ Resumed %s: %d of %d rows match\n", st.ID, len(sess.Rows()), ds.Len())
		if rep := sess.Report(); rep != nil && rep.Headline != "" {
			fmt.Printf("# %s\n", rep.Headline)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted session %s\n", args[0])
		return nil
	},
}

func openStore() (*session.Store, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	return session.NewStore(c.SessionsDir), nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResumeCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}
