package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/devhub/internal/api"
	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func newProjectsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse projects",
	}

	var page, size int
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := opts.app.API().Projects.List(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				table(w, "ID\tNAME\tAUTHOR\tTECHNOLOGIES", func(tw *tabwriter.Writer) {
					for _, p := range res.Projects {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Author.Name, strings.Join(p.Technologies, ","))
					}
				})
				fmt.Fprintf(w, "page %d of %d\n", max(page, api.DefaultPage), res.Pages)
			})
		},
	}
	list.Flags().IntVar(&page, "page", api.DefaultPage, "page number")
	list.Flags().IntVar(&size, "size", api.DefaultPageSize, "page size")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			p, err := opts.app.API().Projects.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), p, func(w io.Writer) {
				fmt.Fprintf(w, "%s (#%d)\n", p.Name, p.ID)
				fmt.Fprintf(w, "author:       %s\n", p.Author.Name)
				fmt.Fprintf(w, "repository:   %s\n", p.RepositoryURL)
				fmt.Fprintf(w, "technologies: %s\n", strings.Join(p.Technologies, ", "))
				fmt.Fprintf(w, "views:        %d\n", p.CountViews)
				if p.Description != "" {
					fmt.Fprintf(w, "\n%s\n", p.Description)
				}
			})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newCommentsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Browse project comments",
	}

	var page, size int
	list := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List the comments of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}

			res, err := opts.app.API().Comments.List(cmd.Context(), projectID, page, size)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				for _, c := range res.Comments {
					fmt.Fprintf(w, "#%d %s (%s)\n  %s\n", c.ID, c.Author.Name, c.CreatedAt, c.Text)
				}
			})
		},
	}
	list.Flags().IntVar(&page, "page", api.DefaultPage, "page number")
	list.Flags().IntVar(&size, "size", api.DefaultPageSize, "page size")

	cmd.AddCommand(list)
	return cmd
}

func newUsersCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse users",
	}

	var (
		page, size int
		role       string
		active     bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users := opts.app.API().Users

			var (
				res *domain.UsersPage
				err error
			)
			switch {
			case role != "":
				res, err = users.ListByRole(cmd.Context(), domain.Role(strings.ToUpper(role)), page, size)
			case active:
				res, err = users.ListActive(cmd.Context(), page, size)
			default:
				res, err = users.List(cmd.Context(), page, size)
			}
			if err != nil {
				return err
			}

			return opts.print(cmd.OutOrStdout(), res, func(w io.Writer) {
				printUsers(w, res.Users)
			})
		},
	}
	list.Flags().IntVar(&page, "page", api.DefaultPage, "page number")
	list.Flags().IntVar(&size, "size", 0, "page size (default 10, 50 with --role)")
	list.Flags().StringVar(&role, "role", "", "only users with this role")
	list.Flags().BoolVar(&active, "active", false, "only active users")

	var limit int
	top := &cobra.Command{
		Use:   "top",
		Short: "Users with the most experience",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := opts.app.API().Users.TopByXP(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), users, func(w io.Writer) {
				printUsers(w, users)
			})
		},
	}
	top.Flags().IntVar(&limit, "limit", api.DefaultTopLimit, "number of users")

	cmd.AddCommand(list, top)
	return cmd
}

func printUsers(w io.Writer, users []domain.User) {
	table(w, "ID\tNAME\tEMAIL\tROLE\tLEVEL\tXP", func(tw *tabwriter.Writer) {
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n", u.ID, u.Name, u.Email, u.Role, u.Level, u.XP)
		}
	})
}
