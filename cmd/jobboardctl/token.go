package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobboard-backend/internal/shared/auth"
)

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an existing user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := loadConfig()
		signer, err := auth.NewSigner(cfg.JWTSecret, cfg.Env)
		if err != nil {
			return err
		}
		database, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		userSvc, _ := services(database)
		user, err := userSvc.GetByID(cmd.Context(), tokenUserID)
		if err != nil {
			return err
		}
		token, err := signer.Sign(auth.Claims{Sub: user.ID, Email: user.Email, Role: string(user.Role)})
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenUserID, "user", "", "user id")
	_ = tokenCmd.MarkFlagRequired("user")
}
