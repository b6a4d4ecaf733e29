package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scrollkeeper-service/internal/ai"
	"scrollkeeper-service/internal/config"
	"scrollkeeper-service/internal/domain"
)

// NewGenerateCmd authors new questions via the AI collaborator and prints
// them as JSON for review. Generation failures are surfaced to the
// operator directly; they never touch a running game.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var (
		category string
		tier     int
		count    int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate new questions via the AI collaborator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Judge.GenerateURL == "" {
				return fmt.Errorf("judge.generateUrl not configured")
			}
			if category == "" {
				return fmt.Errorf("--category is required")
			}
			if tier < 1 || tier > 3 {
				return fmt.Errorf("--tier must be 1, 2 or 3")
			}

			generator := ai.NewGenerator(cfg.Judge.GenerateURL, config.TTLDuration(cfg.Judge.Timeout, 30*time.Second), zap.NewNop())
			questions, err := generator.Generate(cmd.Context(), category, domain.Tier(tier), count)
			if err != nil {
				return fmt.Errorf("generate questions: %w", err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(questions)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category of the generated questions")
	cmd.Flags().IntVar(&tier, "tier", 1, "difficulty tier (1-3)")
	cmd.Flags().IntVar(&count, "count", 5, "number of questions to generate")
	return cmd
}
