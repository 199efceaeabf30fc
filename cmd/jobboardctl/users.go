package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobboard-backend/internal/identity"
	"jobboard-backend/internal/users"
)

var newUser struct {
	email, name, role, phone, company, skills, locations string
	experience                                           float64
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a candidate, recruiter or admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		role, ok := identity.ParseRole(newUser.role)
		if !ok {
			return fmt.Errorf("unknown role %q", newUser.role)
		}
		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		userSvc, _ := services(database)
		user, err := userSvc.Create(cmd.Context(), users.NewUser{
			Email:    newUser.email,
			FullName: newUser.name,
			Role:     role,
			Profile: users.CandidateProfile{
				Phone:              newUser.phone,
				CurrentCompany:     newUser.company,
				Skills:             splitList(newUser.skills),
				ExperienceYears:    newUser.experience,
				PreferredLocations: splitList(newUser.locations),
			},
		})
		if err != nil {
			return err
		}
		return printJSON(user)
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersCreateCmd)

	f := usersCreateCmd.Flags()
	f.StringVar(&newUser.email, "email", "", "account email")
	f.StringVar(&newUser.name, "name", "", "full name")
	f.StringVar(&newUser.role, "role", "candidate", "candidate, recruiter or admin")
	f.StringVar(&newUser.phone, "phone", "", "candidate phone")
	f.StringVar(&newUser.company, "company", "", "candidate current company")
	f.StringVar(&newUser.skills, "skills", "", "comma separated candidate skills")
	f.StringVar(&newUser.locations, "locations", "", "comma separated preferred locations")
	f.Float64Var(&newUser.experience, "experience", 0, "candidate years of experience")
	_ = usersCreateCmd.MarkFlagRequired("email")
}
