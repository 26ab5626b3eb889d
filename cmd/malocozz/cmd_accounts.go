package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreimonforte/malocozz/app/services"
)

// malocozz admin:create <username> <email> <password> <first> <last>
var adminCreateCmd = &cobra.Command{
	Use:   "admin:create <username> <email> <password> <first-name> <last-name>",
	Short: "Create a verified admin account",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		user, err := services.NewUserService().CreateAdmin(services.AdminInput{
			Username:  args[0],
			Email:     args[1],
			Password:  args[2],
			FirstName: args[3],
			LastName:  args[4],
		})
		if err != nil {
			return err
		}

		fmt.Printf("Admin %s <%s> created (id %d)\n", user.Username, user.Email, user.ID)
		return nil
	},
}

// malocozz user:promote <email>
var userPromoteCmd = &cobra.Command{
	Use:   "user:promote <email>",
	Short: "Promote an existing user to admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}

		user, err := services.NewUserService().Promote(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s is now an admin\n", user.Email)
		return nil
	},
}
