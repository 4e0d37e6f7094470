package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forestplants/storefront/internal/core/domain"
)

func newCartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}
	cmd.AddCommand(
		newCartShowCmd(opts),
		newCartAddCmd(opts),
		newCartRemoveCmd(opts),
		newCartSetCmd(opts),
		newCartClearCmd(opts),
	)
	return cmd
}

func newCartShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				items := a.cart.Items()
				if len(items) == 0 {
					printf(cmd.OutOrStdout(), "Your cart is empty\n")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				printf(tw, "PLANT\tNAME\tQTY\tPRICE\tSUBTOTAL\n")
				for _, it := range items {
					printf(tw, "%s\t%s\t%d\t%.2f\t%.2f\n", it.PlantID, it.Name, it.Quantity, it.Price, it.Price*float64(it.Quantity))
				}
				printf(tw, "\t\t%d\t\t%.2f\n", a.cart.ItemCount(), a.cart.Total())
				return tw.Flush()
			})
		},
	}
}

// plantSummary is the part of GET /plants/:id the cart needs.
type plantSummary struct {
	ID    domain.ID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

func newCartAddCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		price    float64
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "add <plant-id>",
		Short: "Add a plant to the cart",
		Long:  "Add a plant to the cart. Without --name and --price the plant is looked up on the backend.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				plant := plantSummary{ID: domain.ID(args[0]), Name: name, Price: price}
				if !cmd.Flags().Changed("name") || !cmd.Flags().Changed("price") {
					fetched, err := fetchPlant(cmd.Context(), a, plant.ID)
					if err != nil {
						return err
					}
					if !cmd.Flags().Changed("name") {
						plant.Name = fetched.Name
					}
					if !cmd.Flags().Changed("price") {
						plant.Price = fetched.Price
					}
				}
				if err := a.cart.AddItem(plant.ID, plant.Name, plant.Price, quantity); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Added %d × %s (%d in cart)\n", quantity, plant.Name, a.cart.ItemCount())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "plant name")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "number of units")
	return cmd
}

func fetchPlant(ctx context.Context, a *app, id domain.ID) (plantSummary, error) {
	resp, err := a.api.Get(ctx, "/plants/"+id.String())
	if err != nil {
		return plantSummary{}, fmt.Errorf("look up plant %s: %w", id, err)
	}
	var p plantSummary
	if err := resp.DecodeData(&p); err != nil {
		return plantSummary{}, fmt.Errorf("look up plant %s: %w", id, err)
	}
	return p, nil
}

func newCartRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <plant-id>",
		Short: "Remove a plant from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				a.cart.RemoveItem(domain.ID(args[0]))
				printf(cmd.OutOrStdout(), "%d in cart\n", a.cart.ItemCount())
				return nil
			})
		},
	}
}

func newCartSetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <plant-id> <quantity>",
		Short: "Set the quantity of a plant; zero removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			return opts.withApp(cmd.Context(), func(a *app) error {
				a.cart.SetQuantity(domain.ID(args[0]), qty)
				printf(cmd.OutOrStdout(), "%d in cart\n", a.cart.ItemCount())
				return nil
			})
		},
	}
	// A negative quantity after the plant id is an argument, not a flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newCartClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				a.cart.Clear()
				printf(cmd.OutOrStdout(), "Cart cleared\n")
				return nil
			})
		},
	}
}
