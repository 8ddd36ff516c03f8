package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/database"
)

var (
	userName     string
	userPassword string
	userLevel    string
)

// kasir user:create <username> --name --password --level
var userCreateCmd = &cobra.Command{
	Use:   "user:create <username>",
	Short: "Create a staff account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(userPassword) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		name := userName
		if name == "" {
			name = args[0]
		}
		u, err := services.NewUserService(database.DB).Create(context.Background(), services.NewUser{
			Name:     name,
			Username: args[0],
			Password: userPassword,
			Level:    models.Level(userLevel),
		})
		if err != nil {
			return err
		}
		fmt.Printf("✅ Created %s %q (id %d)\n", u.Level, u.Username, u.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name (defaults to the username)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "plain-text password, at least 8 characters")
	userCreateCmd.Flags().StringVar(&userLevel, "level", string(models.LevelCashier), "administrator or cashier")
	_ = userCreateCmd.MarkFlagRequired("password")
}
