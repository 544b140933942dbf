package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-keynexus/internal/catalog"
	"github.com/tbourn/go-keynexus/internal/repo"
)

func newCatalogCmd(app *cli) *cobra.Command {
	var (
		query  string
		genre  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog products, optionally filtered",
		Long: `Loads the catalog the server would serve and prints the products whose
title contains --query and whose genre matches --genre.

Example:
  keynexus catalog --genre RPG --query star`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := catalog.ParseGenreSelector(genre)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, store, err := openCatalog(ctx, app.cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			items := store.Filter(catalog.Criteria{Query: query, Genre: g})
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tGENRE\tPLATFORM\tPRICE\tDISCOUNT")
			for _, p := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t$%s\t%d%%\n",
					p.ID, p.Title, p.Genre, p.Platform, p.Price.StringFixed(2), p.Discount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			st, err := repo.ProductStats(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d of %d products", len(items), st.Products)
			if st.Updated != nil {
				fmt.Fprintf(out, " (catalog %s, updated %s)", store.Version(), st.Updated.Format("2006-01-02"))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive title substring")
	cmd.Flags().StringVarP(&genre, "genre", "g", "All", "genre name or All")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print products as JSON")
	return cmd
}
