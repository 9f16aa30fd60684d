package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yumyai/domcomb/pkg/model"
)

type graphOptions struct {
	combinationType string
	ignoreSelf      bool
	order           string
	format          string
}

func newGraphCommand(a *app) *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph <species>",
		Short: "Print the domain combination graph of one genome",
		Long: `Graph builds the domain combination graph of one species from the imported
annotations and prints it as a table (one line per key domain: id, count,
proteins, partners, median e-value, partner list), as graphviz DOT, or as
promiscuity statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParseDomainCombinationType(opts.combinationType)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			species := model.Species(args[0])
			proteins, err := store.LoadProteins(ctx, species)
			if err != nil {
				return err
			}
			if len(proteins) == 0 {
				return fmt.Errorf("no annotations for species %s", species)
			}
			genome, err := model.Build(proteins, species, t, opts.ignoreSelf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch opts.format {
			case "table":
				return genome.WriteTable(out, model.ParseSortOrder(opts.order))
			case "dot":
				return genome.WriteDOT(out)
			case "stats":
				s := genome.PromiscuityStatistics()
				fmt.Fprintf(out, "species\t%s\n", species)
				fmt.Fprintf(out, "proteins\t%d\n", len(proteins))
				fmt.Fprintf(out, "domains\t%d\n", genome.Size())
				fmt.Fprintf(out, "combinations\t%d\n", len(genome.BinaryDomainCombinations()))
				if s.N() > 0 {
					fmt.Fprintf(out, "partners_mean\t%.4f\n", s.Mean())
					fmt.Fprintf(out, "partners_max\t%.0f\n", s.Max())
				}
				fmt.Fprintf(out, "most_promiscuous\t%s\n", strings.Join(genome.MostPromiscuousDomains(), ","))
				return nil
			default:
				return fmt.Errorf("unknown format %q", opts.format)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.combinationType, "type", "t", "basic", "Combination type: basic, directed, directed_adjacent")
	cmd.Flags().BoolVar(&opts.ignoreSelf, "ignore-self", true, "Ignore combinations of a domain with itself")
	cmd.Flags().StringVar(&opts.order, "order", "alphabetical", "Table order: alphabetical, key_domain_count, key_domain_proteins_count, combinations_count")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output: table, dot, stats")

	return cmd
}
