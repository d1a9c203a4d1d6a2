package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tradepost/tradepost/client"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage marketplace listings",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active items",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		items, err := c.Items(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPRICE\tSTATUS")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				item.ID, item.Title, formatPrice(item.PriceCents, item.Currency), item.Status)
		}
		return w.Flush()
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "List an item for sale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		price, _ := cmd.Flags().GetInt64("price")
		currency, _ := cmd.Flags().GetString("currency")
		description, _ := cmd.Flags().GetString("description")

		item, err := c.CreateItem(cmd.Context(), client.ItemInput{
			Title:       args[0],
			Description: description,
			PriceCents:  price,
			Currency:    currency,
		})
		if err != nil {
			return err
		}

		fmt.Printf("listed %s (%s)\n", item.Title, item.ID)
		return nil
	},
}

var itemsRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove one of your listings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id: %w", err)
		}

		if err := c.DeleteItem(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Println("removed")
		return nil
	},
}

var buyCmd = &cobra.Command{
	Use:   "buy <item-id>",
	Short: "Purchase an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id: %w", err)
		}

		trx, err := c.Purchase(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("purchased for %s (transaction %s)\n",
			formatPrice(trx.AmountCents, trx.Currency), trx.ID)
		return nil
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Read and write posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		posts, err := c.Posts(cmd.Context())
		if err != nil {
			return err
		}

		for _, post := range posts {
			fmt.Printf("%s  %s\n    %s\n", post.CreatedAt.Format("2006-01-02"), post.Title, post.Body)
		}
		return nil
	},
}

var postsAddCmd = &cobra.Command{
	Use:   "add <title> <body>",
	Short: "Publish a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		post, err := c.CreatePost(cmd.Context(), client.PostInput{
			Title: args[0],
			Body:  args[1],
		})
		if err != nil {
			return err
		}

		fmt.Printf("published %s\n", post.ID)
		return nil
	},
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Show your transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		transactions, err := c.Transactions(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tITEM\tAMOUNT\tSTATUS")
		for _, trx := range transactions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				trx.ID, trx.ItemID, formatPrice(trx.AmountCents, trx.Currency), trx.Status)
		}
		return w.Flush()
	},
}

func formatPrice(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}

func init() {
	itemsAddCmd.Flags().Int64("price", 0, "price in cents")
	itemsAddCmd.Flags().String("currency", "USD", "ISO currency code")
	itemsAddCmd.Flags().String("description", "", "item description")
	_ = itemsAddCmd.MarkFlagRequired("price")

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsRemoveCmd)

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsAddCmd)

	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(txCmd)
	rootCmd.AddCommand(buyCmd)
}
