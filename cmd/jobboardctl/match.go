package main

import (
	"github.com/spf13/cobra"

	"jobboard-backend/internal/matching"
)

var matchArgs struct {
	candidateID, jobID string
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a candidate against a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		userSvc, jobSvc := services(database)
		result, err := matching.NewService(userSvc, jobSvc, nil).Compute(cmd.Context(), matchArgs.candidateID, matchArgs.jobID)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVar(&matchArgs.candidateID, "candidate", "", "candidate user id")
	matchCmd.Flags().StringVar(&matchArgs.jobID, "job", "", "job id")
	_ = matchCmd.MarkFlagRequired("candidate")
	_ = matchCmd.MarkFlagRequired("job")
}
