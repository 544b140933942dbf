package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	httpapi "github.com/tbourn/go-keynexus/internal/http"
)

func newAskCmd(app *cli) *cobra.Command {
	var addToCart bool
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the shopping assistant one question",
		Long: `Runs a single assistant turn against the catalog and prints the reply.
Uses Gemini when an API key is configured, the offline keyword index
otherwise.

Example:
  keynexus ask "something like Elden Ring"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, store, err := openCatalog(ctx, app.cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			provider, err := newProvider(ctx, app.cfg.Scout, store.All())
			if err != nil {
				return err
			}
			deps := httpapi.NewDeps(db, store, provider, app.cfg)

			sess, err := deps.Sessions.Create(ctx)
			if err != nil {
				return err
			}
			defer deps.Sessions.Delete(sess.ID)

			entry, err := deps.Scout.Send(ctx, sess.ID, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, entry.Message.Content)
			if entry.Product == nil {
				return nil
			}
			p := entry.Product
			fmt.Fprintf(out, "\n-> %s (%s, %s) $%s\n", p.Title, p.Platform, p.Genre, p.Price.StringFixed(2))

			if addToCart {
				snap, err := deps.Scout.AddRecommendation(ctx, sess.ID, entry.Index)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "cart: %d item(s), total $%s\n", snap.ItemCount, snap.Total.StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&addToCart, "add", false, "add the recommended product to a cart and print the total")
	return cmd
}
