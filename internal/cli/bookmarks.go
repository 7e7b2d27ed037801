package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/hatebu/internal/domain"
)

func newListCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := s.backend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			list, err := b.Repository.List(cmd.Context())
			if err != nil {
				return err
			}
			if list == nil {
				list = []*domain.Bookmark{}
			}
			return ok(cmd.OutOrStdout(), "bookmarks", list)
		},
	}
}

func newGetCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.backend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			bm, found, err := b.Repository.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fail(cmd.OutOrStdout(), msgNotFound, ExitNotFound)
			}
			return ok(cmd.OutOrStdout(), "bookmark", bm)
		},
	}
}

// paramFlags are the bookmark fields settable from the command line.
type paramFlags struct {
	id, url, title, updatedAt, bURL string
	users                           []string
}

func (f *paramFlags) bindMutable(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.updatedAt, "updated-at", "", `last update time (ex: "May 31, 2022 at 08:00PM")`)
	cmd.Flags().StringSliceVar(&f.users, "user", nil, "user who bookmarked the page (repeatable)")
	cmd.Flags().StringVar(&f.bURL, "b-url", "", "bookmark page URL")
}

// param builds repository input. Only flags given on the command line are
// present.
func (f *paramFlags) param(cmd *cobra.Command) domain.Param {
	set := func(name, v string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return domain.Ptr(v)
	}
	return domain.Param{
		ID:            set("id", f.id),
		URL:           set("url", f.url),
		Title:         set("title", f.title),
		LastUpdatedAt: set("updated-at", f.updatedAt),
		Users:         f.users,
		BURL:          set("b-url", f.bURL),
	}
}

func newCreateCmd(s *state) *cobra.Command {
	f := &paramFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bookmark",
		Long: `Create a bookmark. --url and --title are required by the store; without
them nothing is written and the command exits with status 3.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := s.backend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			bm, created, err := b.Repository.Create(cmd.Context(), f.param(cmd))
			if err != nil {
				return err
			}
			if !created {
				return fail(cmd.OutOrStdout(), msgRejected, ExitRejected)
			}
			return ok(cmd.OutOrStdout(), "post", bm)
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "explicit id (generated when omitted)")
	cmd.Flags().StringVar(&f.url, "url", "", "bookmarked URL")
	cmd.Flags().StringVar(&f.title, "title", "", "page title")
	f.bindMutable(cmd)

	return cmd
}

func newUpdateCmd(s *state) *cobra.Command {
	f := &paramFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the mutable fields of a bookmark",
		Long: `Replace last_updated_at, users and b_url of a bookmark. Fields whose flag
is not given are cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.backend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			updated, err := b.Repository.Update(cmd.Context(), args[0], f.param(cmd))
			if err != nil {
				return err
			}
			if !updated {
				return fail(cmd.OutOrStdout(), msgNotFound, ExitNotFound)
			}
			return ok(cmd.OutOrStdout(), "", nil)
		},
	}
	f.bindMutable(cmd)

	return cmd
}

func newTouchCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "touch <id>",
		Short: "Stamp a bookmark's last_updated_at with the current time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.backend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			touched, err := b.Repository.TouchUpdated(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !touched {
				return fail(cmd.OutOrStdout(), msgNotFound, ExitNotFound)
			}
			return ok(cmd.OutOrStdout(), "", nil)
		},
	}
}

func newDeleteCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := s.backend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			deleted, err := b.Repository.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fail(cmd.OutOrStdout(), msgNotFound, ExitNotFound)
			}
			return ok(cmd.OutOrStdout(), "", nil)
		},
	}
}
