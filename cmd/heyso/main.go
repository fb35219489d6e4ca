// Command heyso is a small CLI over the SDK, mostly useful for poking a
// running backend and for manual verification of the cache behavior.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	heyso "github.com/heyso/heyso-go"
	"github.com/heyso/heyso-go/internal/config"
)

var (
	baseURL string
	debug   bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if msg := heyso.UserMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heyso",
		Short: "Heyso Diary CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Init()
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("HEYSO_DEBUG", "true")
			}
			if baseURL == "" {
				baseURL = cfg.BaseURL
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the Heyso backend (default HEYSO_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newDiaryListCmd())
	rootCmd.AddCommand(newDiaryShowCmd())
	rootCmd.AddCommand(newDiarySaveCmd())
	rootCmd.AddCommand(newDiaryDeleteCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newChatListCmd())
	rootCmd.AddCommand(newChatSendCmd())
	rootCmd.AddCommand(newChatRenameCmd())
	rootCmd.AddCommand(newChatDeleteCmd())

	return rootCmd
}

// withClient builds a validated client for one command invocation.
func withClient(fn func(ctx context.Context, c *heyso.Client) error) error {
	c := heyso.New(baseURL)
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := c.ValidateAuth(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}

func newLoginCmd() *cobra.Command {
	var idToken string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a Google id token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if idToken == "" {
				return fmt.Errorf("--id-token is required")
			}
			c := heyso.New(baseURL)
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			profile, err := c.SignInWithGoogle(ctx, idToken)
			if err != nil {
				return err
			}
			fmt.Printf("signed in as %s (%s)\n", profile.Nickname, profile.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&idToken, "id-token", "", "Google OAuth id token")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := heyso.New(baseURL)
			defer func() { _ = c.Close() }()
			return c.SignOut()
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				sess := c.Session()
				if !sess.SignedIn() {
					fmt.Println("not signed in")
					return nil
				}
				p := c.Profile()
				fmt.Printf("%s (%s)\n", p.Nickname, p.Email)
				if claims, err := c.TokenClaims(); err == nil && claims.ExpiresAt != nil {
					fmt.Printf("session expires %s\n", claims.ExpiresAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newDiaryListCmd() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "diary-list",
		Short: "List diary entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				diaries, err := c.Diaries(ctx, page, size)
				if err != nil {
					return err
				}
				for _, d := range heyso.RecentFirst(diaries) {
					fmt.Printf("%6d  %s  %-30s  [%s]\n", d.DiaryID, d.DiaryDate, d.Title, strings.Join(d.Tags, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", heyso.DefaultPage, "Page number")
	cmd.Flags().IntVar(&size, "size", heyso.DefaultSize, "Page size")
	return cmd
}

func newDiaryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diary-show <id>",
		Short: "Show one diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid diary id %q", args[0])
			}
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				d, err := c.DiaryDetail(ctx, id)
				if err != nil {
					return err
				}
				fmt.Printf("# %s (%s)\n\n%s\n", d.Title, d.DiaryDate, d.ContentMd)
				return nil
			})
		},
	}
}

func newDiarySaveCmd() *cobra.Command {
	var id int64
	var title, content, date string
	var tags []string
	cmd := &cobra.Command{
		Use:   "diary-save",
		Short: "Create or replace a diary entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = heyso.DateKey(time.Now())
			}
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				savedID, err := c.SaveDiary(ctx, heyso.SaveDiaryRequest{
					DiaryID:   id,
					Title:     title,
					ContentMd: content,
					DiaryDate: date,
					Tags:      tags,
				})
				if err != nil {
					return err
				}
				fmt.Printf("saved diary %d\n", savedID)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "Diary id to replace (omit to create)")
	cmd.Flags().StringVar(&title, "title", "", "Entry title")
	cmd.Flags().StringVar(&content, "content", "", "Markdown content")
	cmd.Flags().StringVar(&date, "date", "", "Entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	return cmd
}

func newDiaryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diary-delete <id>",
		Short: "Delete a diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid diary id %q", args[0])
			}
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				return c.DeleteDiary(ctx, id)
			})
		},
	}
}

func newCalendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month's heat-map tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = heyso.MonthKey(time.Now())
			}
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				counts, err := c.MonthlyCounts(ctx, month)
				if err != nil {
					return err
				}
				for _, b := range counts {
					fmt.Printf("%s  count=%d tier=%d\n", b.DiaryDate, b.DiaryCount, heyso.HeatTier(b.DiaryCount))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month YYYY-MM (default current)")
	return cmd
}

func newChatListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat-list",
		Short: "List AI chat conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				conversations, err := c.Conversations(ctx)
				if err != nil {
					return err
				}
				for _, conv := range conversations {
					fmt.Printf("%6d  %-40s  %s\n", conv.ConversationID, conv.Title, conv.UpdatedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newChatSendCmd() *cobra.Command {
	var conversationID int64
	cmd := &cobra.Command{
		Use:   "chat-send <message>",
		Short: "Send a message and print the assistant reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				id := conversationID
				if id == 0 {
					conv, err := c.NewConversation(ctx)
					if err != nil {
						return err
					}
					id = conv.ConversationID
				} else if _, err := c.ConversationDetail(ctx, id); err != nil {
					return err
				}
				reply, err := c.SendMessage(ctx, id, args[0])
				if err != nil {
					return err
				}
				fmt.Println(reply.AssistantContent)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&conversationID, "conversation", 0, "Conversation id (omit to start a new one)")
	return cmd
}

func newChatRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat-rename <id> <title>",
		Short: "Rename a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid conversation id %q", args[0])
			}
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				return c.RenameConversation(ctx, id, args[1])
			})
		},
	}
}

func newChatDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat-rm <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid conversation id %q", args[0])
			}
			return withClient(func(ctx context.Context, c *heyso.Client) error {
				next, err := c.DeleteConversation(ctx, id)
				if err != nil {
					return err
				}
				if next != 0 {
					fmt.Printf("deleted; next conversation: %d\n", next)
				} else {
					fmt.Println("deleted; no conversations left")
				}
				return nil
			})
		},
	}
}
