package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/crudauth/internal/client"
	"github.com/sakif/crudauth/internal/model"
)

func newBooksCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{Use: "books", Short: "Manage books (login required)"}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List books, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.authedClient()
			if err != nil {
				return err
			}
			books, err := c.ListBooks(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if books == nil {
				books = []model.Book{}
			}
			return printJSON(cmd, books)
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	list.Flags().IntVar(&offset, "offset", 0, "books to skip")
	cmd.AddCommand(list)

	var in client.NewBook
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.authedClient()
			if err != nil {
				return err
			}
			b, err := c.AddBook(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, b)
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "book title")
	add.Flags().StringVar(&in.Author, "author", "", "book author")
	add.Flags().IntVar(&in.Year, "year", 0, "publication year")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.authedClient()
			if err != nil {
				return err
			}
			b, err := c.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, b)
		},
	})

	var (
		title, author string
		year          int
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.authedClient()
			if err != nil {
				return err
			}
			var patch model.BookPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("author") {
				patch.Author = &author
			}
			if cmd.Flags().Changed("year") {
				patch.Year = &year
			}
			b, err := c.UpdateBook(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(cmd, b)
		},
	}
	update.Flags().StringVar(&title, "title", "", "new title")
	update.Flags().StringVar(&author, "author", "", "new author")
	update.Flags().IntVar(&year, "year", 0, "new publication year")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.authedClient()
			if err != nil {
				return err
			}
			if err := c.DeleteBook(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	})

	return cmd
}
