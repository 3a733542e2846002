package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sakif/crudauth/internal/model"
)

func newItemsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "items", Short: "Manage items (no login needed)"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := g.client().ListItems(cmd.Context())
			if err != nil {
				return err
			}
			if items == nil {
				items = []model.Item{}
			}
			return printJSON(cmd, items)
		},
	})

	var in model.NewItem
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			it, err := g.client().AddItem(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, it)
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "item name")
	add.Flags().StringVar(&in.Description, "description", "", "item description")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			it, err := g.client().GetItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, it)
		},
	})

	var name, description string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			// only flags the user passed end up in the patch
			var patch model.ItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			it, err := g.client().UpdateItem(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return printJSON(cmd, it)
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&description, "description", "", "new description")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete every item with this id; prints true or false",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			removed, err := g.client().DeleteItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, removed)
		},
	})

	return cmd
}
