package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/voxtask/voxtask/internal/database"
)

// NewTasksCmd creates the tasks command
func NewTasksCmd() *cobra.Command {
	var userFlag string
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks",
		Long:  "List tasks for a user, optionally filtered to one scheduled date",
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

			var dateFrom, dateTo *time.Time
			if dateFlag != "" {
				day, err := time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", dateFlag)
				}
				dateFrom = &day
				dateTo = &day
			}

			taskRepo := database.NewTaskRepository(db)
			tasks, err := taskRepo.ListByUserID(context.Background(), userID, dateFrom, dateTo)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks found")
				return nil
			}

			for _, task := range tasks {
				line := fmt.Sprintf("  [%s] %s (%s", task.Status, task.Title, task.Priority)
				if task.ScheduledDate != nil {
					line += ", " + task.ScheduledDate.Format("2006-01-02")
					if task.ScheduledTime != "" {
						line += " " + task.ScheduledTime
					}
				}
				line += ")"
				fmt.Println(line)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "User ID to list tasks for")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Only tasks scheduled on this date (YYYY-MM-DD)")

	return cmd
}
