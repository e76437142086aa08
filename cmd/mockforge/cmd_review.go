package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/accessreview"
)

var reviewUsersPath string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "drive access review sweeps",
}

// reviewStartUsersCmd runs one review sweep per invocation: the engine
// keeps review state only in memory, so there is nothing for a
// separate "show" command to read back across process runs.
var reviewStartUsersCmd = &cobra.Command{
	Use:   "start-users",
	Short: "start a user access review from a JSON snapshot of users and print its findings",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(reviewUsersPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", reviewUsersPath, err)
		}

		var users []accessreview.UserAccessInfo
		if err := json.Unmarshal(data, &users); err != nil {
			return fmt.Errorf("parse %s: %w", reviewUsersPath, err)
		}

		engine := newReviewEngine()
		review, err := engine.StartUserAccessReview(users)
		if err != nil {
			return err
		}
		return printJSON(review)
	},
}

// newReviewEngine builds an Engine with both the review-engine-level and
// user-review switches enabled; DefaultConfig ships the engine-level
// switch off.
func newReviewEngine() *accessreview.Engine {
	config := accessreview.DefaultConfig()
	config.Enabled = true
	config.UserReview.Enabled = true
	return accessreview.NewEngine(config)
}

func printJSON(v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func init() {
	reviewStartUsersCmd.Flags().StringVar(&reviewUsersPath, "users", "", "path to a JSON array of user access snapshots (required)")
	reviewStartUsersCmd.MarkFlagRequired("users")

	reviewCmd.AddCommand(reviewStartUsersCmd)
}
