package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage firm users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add a user identified by email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			user, created, err := a.UserService.Ensure(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("user %s %s (%s)\n", user.Email, status(created), user.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.UserService.All()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEMAIL\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Name, u.Email, u.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	})

	return cmd
}
