package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/pomo/internal/model"
	"github.com/Tiliavir/pomo/internal/storage"
)

var categoryColor string

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage session categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryColor, "color", model.DefaultColor, "Display color (#rrggbb)")
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, _ := mustApp(ctx, os.Stderr)
	defer app.Close()

	cats, err := app.Store.ListCategories(ctx)
	if err != nil {
		return exitWith(exitStorage, err)
	}
	printCategories(os.Stdout, cats)
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, _ := mustApp(ctx, os.Stderr)
	defer app.Close()

	id, err := app.Store.AddCategory(ctx, args[0], categoryColor)
	switch {
	case errors.Is(err, storage.ErrDuplicateCategory), errors.Is(err, storage.ErrInvalidCategory):
		return exitWith(exitUsage, err)
	case err != nil:
		return exitWith(exitStorage, err)
	}
	fmt.Printf("Added category %q (id %d).\n", args[0], id)
	return nil
}

func printCategories(w io.Writer, cats []model.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	for _, c := range cats {
		fmt.Fprintf(w, "%3d  %-7s  %s\n", c.ID, c.Color, c.Name)
	}
}
