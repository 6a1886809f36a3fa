package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voxtask/voxtask/internal/database"
	"github.com/voxtask/voxtask/internal/interpreter"
	"github.com/voxtask/voxtask/internal/models"
	"github.com/voxtask/voxtask/internal/services/planner"
)

// NewSayCmd creates the say command
func NewSayCmd() *cobra.Command {
	var userFlag string
	var intentFlag string
	var showData bool

	cmd := &cobra.Command{
		Use:   "say [utterance]",
		Short: "Run a natural-language command",
		Long:  "Interpret and execute a natural-language command directly against the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig()
			if err != nil {
				return err
			}

			userID, err := resolveUserID(userFlag, cfg)
			if err != nil {
				return err
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			store := database.NewStore(
				database.NewTaskRepository(db),
				database.NewGoalRepository(db),
				database.NewObjectiveRepository(db),
			)
			aiPlanner := planner.NewOpenAIPlannerWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, nil, false)
			interp := interpreter.New(store, aiPlanner)

			utterance := models.Utterance{Text: strings.Join(args, " ")}
			if intentFlag != "" {
				if _, valid := interpreter.ValidIntent(intentFlag); !valid {
					return fmt.Errorf("unknown intent: %s", intentFlag)
				}
				utterance.Context = map[string]string{"intent": intentFlag}
			}

			result := interp.Execute(context.Background(), userID, utterance)

			fmt.Println(result.Message)
			if showData && result.Data != nil {
				encoded, err := json.MarshalIndent(result.Data, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode result data: %w", err)
				}
				fmt.Println(string(encoded))
			}
			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "User ID to run the command as")
	cmd.Flags().StringVar(&intentFlag, "intent", "", "Force a specific intent instead of classifying")
	cmd.Flags().BoolVar(&showData, "json", false, "Print the result data as JSON")

	return cmd
}
