package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Veraticus/lelesmart/internal/expert"
	"github.com/Veraticus/lelesmart/internal/model"
)

func rulesCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the rule tables in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc := rulesMarkdown()
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return fmt.Errorf("failed to create markdown renderer: %w", err)
			}
			out, err := renderer.Render(doc)
			if err != nil {
				return fmt.Errorf("failed to render rules: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without styling")
	return cmd
}

func rulesMarkdown() string {
	var b strings.Builder
	b.WriteString("# Rules\n\nThe first matching rule in each table decides the result.\n")
	writeTable(&b, "Seed condition", expert.SeedRules)
	writeTable(&b, "Pond condition", expert.PondRules)
	writeTable(&b, "Final recommendation", expert.FinalRules)
	return b.String()
}

func writeTable[I any, S model.Status](b *strings.Builder, title string, t expert.Table[I, S]) {
	fmt.Fprintf(b, "\n## %s\n\n| # | Rule | Conclusion | Label |\n|---|------|------------|-------|\n", title)
	for i, rule := range t.Rules {
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", i+1, rule.Name, rule.Then, rule.Then.Label())
	}
	fmt.Fprintf(b, "| - | %s | %s | %s |\n", expert.FallbackRule, t.Fallback, t.Fallback.Label())
}
