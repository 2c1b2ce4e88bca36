package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommunityCommand(ctx *commandContext) *cobra.Command {
	communityCmd := &cobra.Command{
		Use:   "community",
		Short: "Community experience reports",
	}
	communityCmd.AddCommand(newCommunityPostsCommand(ctx))
	communityCmd.AddCommand(newCommunityShareCommand(ctx))
	communityCmd.AddCommand(newCommunitySummaryCommand(ctx))
	communityCmd.AddCommand(newCommunityStatsCommand(ctx))
	return communityCmd
}

func newCommunityPostsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "List recent community posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				posts, err := a.client.ListCommunityPosts(cmd.Context())
				if err != nil {
					return err
				}
				if len(posts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No community posts yet")
					return nil
				}
				out := cmd.OutOrStdout()
				for _, post := range posts {
					author := post.UserName
					if post.IsDoctorReviewed {
						author += " (doctor reviewed)"
					}
					fmt.Fprintf(out, "%s (%s)\n", author, post.Timestamp)
					if len(post.MedicationProfile) > 0 {
						fmt.Fprintf(out, "  Taking: %s\n", strings.Join(post.MedicationProfile, ", "))
					}
					fmt.Fprintf(out, "  %s\n", post.Experience)
					if post.SideEffects != "" {
						fmt.Fprintf(out, "  Side effects: %s\n", post.SideEffects)
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}
}

func newCommunityShareCommand(ctx *commandContext) *cobra.Command {
	var meds, sideEffects string

	cmd := &cobra.Command{
		Use:   "share <message>",
		Short: "Share your experience with the community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				userID := a.cfg.Backend.AnonymousUserID
				if id, ok := a.session.UserID(); ok {
					userID = id
				}
				var profile []string
				for _, med := range strings.Split(meds, ",") {
					if med = strings.TrimSpace(med); med != "" {
						profile = append(profile, med)
					}
				}
				if err := a.client.CreateCommunityPost(cmd.Context(), userID, profile, args[0], sideEffects); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Experience shared")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&meds, "meds", "", "Comma-separated medicines the post is about")
	cmd.Flags().StringVar(&sideEffects, "side-effects", "", "Side effects you noticed")
	return cmd
}

func newCommunitySummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <drug>...",
		Short: "AI digest of community experiences with these medicines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				summary, err := a.client.CommunitySummary(cmd.Context(), args)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
}

func newCommunityStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <drug>...",
		Short: "How many users share this medication profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				stats, err := a.client.MatchingProfileStats(cmd.Context(), args)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), stats.Message)
				return nil
			})
		},
	}
}
