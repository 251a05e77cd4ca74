package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/calparse/internal/classify"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the keyword vocabulary as YAML",
	Long: `Vocab prints the keyword tables used to classify event text: location
hints, person hints, split markers and the rest. With --vocabulary the
loaded file is shown merged with the defaults. Save the output, edit it and
pass it back with --vocabulary to tune classification for another calendar.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := extractConfig()
		if err != nil {
			return err
		}
		return classify.WriteVocabulary(os.Stdout, cfg.Vocabulary)
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}
