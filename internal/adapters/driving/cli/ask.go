package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridian-labs/docqa/internal/config"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [document-url] [question]...",
	Short: "Answer questions about a document",
	Long: `Downloads the document at the given URL and answers each question
against it, printing one answer per question.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answers as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	documentURL, questions := args[0], args[1:]
	if len(questions) > cfg.MaxQuestions {
		return fmt.Errorf("too many questions: %d exceeds the limit of %d", len(questions), cfg.MaxQuestions)
	}

	pipeline, err := buildPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	answers := pipeline.Answer(cmd.Context(), documentURL, questions)

	if askJSON {
		data, err := json.MarshalIndent(answers, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	for i, a := range answers {
		cmd.Printf("%d. %s\n   %s\n", i+1, a.Question, a.Answer)
	}
	return nil
}
