package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	pokedextable "github.com/nerdwave-nick/pokedex/internal/table"
	"github.com/spf13/cobra"
)

type ListOptions struct {
	Page  int
	Query string
	Sort  string
	Dir   string
}

var listOpts = &ListOptions{}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func init() {
	listCmd.Flags().IntVar(&listOpts.Page, "page", 0, "Zero based page to list.")
	listCmd.Flags().StringVarP(&listOpts.Query, "query", "q", "", "Search a single pokemon by name instead of listing a page.")
	listCmd.Flags().StringVar(&listOpts.Sort, "sort", "", "Column to sort the page by: name, types or base_experience.")
	listCmd.Flags().StringVar(&listOpts.Dir, "dir", "asc", "Sort direction, asc or desc.")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a page of pokemon, or a name search, as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stack, err := openCacheStack(cmd.Context(), rootOpts, false)
		if err != nil {
			return err
		}
		defer stack.Close()

		service := pokedex.NewService(newPokeapiClient(stack.cache, rootOpts), rootOpts.Concurrency, rootOpts.APIURL)
		result, err := service.Browse(cmd.Context(), listOpts.Query, listOpts.Page)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if result.NotFound {
			fmt.Fprintln(out, errorStyle.Render(pokedex.NotFoundMessage))
			if len(result.Suggestions) > 0 {
				fmt.Fprintf(out, "Did you mean %s?\n", strings.Join(result.Suggestions, ", "))
			}
			return nil
		}
		rows := pokedextable.Sort(result.Pokemon, pokedextable.ParseSorting(listOpts.Sort, listOpts.Dir))
		fmt.Fprintln(out, renderSummaries(rows))
		if !result.IsSearch() {
			fmt.Fprintf(out, "page %d, next with --page %d\n", result.Page, result.Page+1)
		}
		return nil
	},
}

func renderSummaries(rows []pokedex.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Poke Name", "Poke Type", "Base Experience").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		exp := ""
		if r.BaseExperience != 0 {
			exp = strconv.Itoa(r.BaseExperience)
		}
		t.Row(strconv.Itoa(r.ID), r.Name, strings.Join(r.Types, ", "), exp)
	}
	return t.String()
}
