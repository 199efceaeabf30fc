package main

import (
	"github.com/spf13/cobra"

	"jobboard-backend/internal/jobs"
)

var newJob struct {
	recruiterID, title, company, location, skills string
	experience                                    float64
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job postings",
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post an open job on behalf of a recruiter",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		userSvc, jobSvc := services(database)
		owner, err := userSvc.ResolvePrincipal(cmd.Context(), newJob.recruiterID)
		if err != nil {
			return err
		}
		job, err := jobSvc.Create(cmd.Context(), owner, jobs.NewJob{
			Title:                   newJob.title,
			Company:                 newJob.company,
			Location:                newJob.location,
			RequiredSkills:          splitList(newJob.skills),
			RequiredExperienceYears: newJob.experience,
		})
		if err != nil {
			return err
		}
		return printJSON(job)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsCreateCmd)

	f := jobsCreateCmd.Flags()
	f.StringVar(&newJob.recruiterID, "recruiter", "", "owning recruiter user id")
	f.StringVar(&newJob.title, "title", "", "job title")
	f.StringVar(&newJob.company, "company", "", "company name")
	f.StringVar(&newJob.location, "location", "", "job location")
	f.StringVar(&newJob.skills, "skills", "", "comma separated required skills")
	f.Float64Var(&newJob.experience, "experience", 0, "required years of experience")
	_ = jobsCreateCmd.MarkFlagRequired("recruiter")
	_ = jobsCreateCmd.MarkFlagRequired("title")
}
