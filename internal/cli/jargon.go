package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/legalese/internal/extract"
	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/simplify"
)

// jargonCmd represents the jargon command
var jargonCmd = &cobra.Command{
	Use:   "jargon",
	Short: "List the jargon substitution table",
	Long: `Jargon prints every legal phrase the rule-based simplifier rewrites,
in the order the substitutions are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PHRASE\tPLAIN ENGLISH")
		for _, entry := range simplify.Table() {
			fmt.Fprintf(tw, "%s\t%s\n", entry.Phrase, entry.Replacement)
		}
		return tw.Flush()
	},
}

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <sentence>",
	Short: "Show the key-point category of a sentence",
	Example: `  legalese classify "The Tenant shall pay rent monthly."
  legalese classify The agreement ends after 30 days`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sentence := strings.Join(args, " ")
		category, ok := extract.Classify(sentence)
		if !ok {
			category = model.CategoryGeneral
		}
		fmt.Println(category)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jargonCmd)
	rootCmd.AddCommand(classifyCmd)
}
