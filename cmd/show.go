package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nerdwave-nick/pokedex/internal/pokedex"
	"github.com/spf13/cobra"
)

var showTriggers int

var titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

func init() {
	showCmd.Flags().IntVar(&showTriggers, "triggers", 0, "Zero based page of evolution triggers to show.")
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the details of a pokemon and a page of evolution triggers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := openCacheStack(cmd.Context(), rootOpts, false)
		if err != nil {
			return err
		}
		defer stack.Close()

		service := pokedex.NewService(newPokeapiClient(stack.cache, rootOpts), rootOpts.Concurrency, rootOpts.APIURL)
		return runShow(cmd.Context(), cmd.OutOrStdout(), service, args[0], showTriggers)
	},
}

type detailer interface {
	Detail(ctx context.Context, name string, triggerPage int) (*pokedex.Detail, error)
}

// runShow prints the detail of name. An unknown pokemon prints the not found message and is
// not an error.
func runShow(ctx context.Context, out io.Writer, d detailer, name string, triggerPage int) error {
	detail, err := d.Detail(ctx, name, triggerPage)
	if errors.Is(err, pokedex.ErrNotFound) {
		fmt.Fprintln(out, errorStyle.Render(pokedex.NotFoundMessage))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderDetail(detail))
	return nil
}

func renderDetail(d *pokedex.Detail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Height:          %s m\n", d.HeightMetres())
	fmt.Fprintf(&b, "Weight:          %s kg\n", d.WeightKilograms())
	fmt.Fprintf(&b, "Base Experience: %s\n", d.BaseExperienceText())
	fmt.Fprintf(&b, "Abilities:       %s\n\n", strings.Join(d.Abilities, ", "))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Id", "Name").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, tr := range d.Triggers {
		t.Row(strconv.Itoa(tr.ID), tr.Name)
	}
	b.WriteString("Evolution Triggers\n")
	b.WriteString(t.String())
	fmt.Fprintf(&b, "\ntrigger page %d, prev with --triggers %d, next with --triggers %d", d.TriggerPage, d.PrevTriggerPage(), d.NextTriggerPage())
	return b.String()
}
