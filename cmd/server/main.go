// The malocozz binary runs the shop API server and its maintenance
// commands:
//
//	malocozz serve
//	malocozz migrate
//	malocozz seed
//	malocozz admin:create <username> <email> <password> <first> <last>
//	malocozz user:promote <email>
//	malocozz products:export [file]
//	malocozz db:check
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/andreimonforte/malocozz/app/jobs"
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/app/routes"
	"github.com/andreimonforte/malocozz/app/services"
	"github.com/andreimonforte/malocozz/pkg/app"
	"github.com/andreimonforte/malocozz/pkg/database"

	_ "github.com/andreimonforte/malocozz/database/migrations"
	_ "github.com/andreimonforte/malocozz/database/seeders"
)

func main() {
	app.New().
		Routes(routes.Register).
		AutoMigrate(
			&models.User{},
			&models.Category{},
			&models.Product{},
			&models.Customer{},
			&models.Order{},
			&models.OrderItem{},
		).
		Boot(jobs.Register).
		Command("admin:create", "Create a verified admin account", adminCreate).
		Command("user:promote", "Promote an existing user to admin", userPromote).
		Command("products:export", "Export the product catalogue as CSV", productsExport).
		Command("db:check", "Verify the database connection", dbCheck).
		Run()
}

func adminCreate(args []string) error {
	if len(args) != 5 {
		return errors.New("usage: admin:create <username> <email> <password> <first-name> <last-name>")
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
}

func userPromote(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: user:promote <email>")
	}

	user, err := services.NewUserService().Promote(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s is now an admin\n", user.Email)
	return nil
}

func productsExport(args []string) error {
	name := fmt.Sprintf("products-%s.csv", time.Now().Format("2006-01-02"))
	if len(args) > 0 {
		name = args[0]
	}

	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := services.NewProductService().ExportCSV(f); err != nil {
		return err
	}

	fmt.Println("Exported to", name)
	return nil
}

func dbCheck(args []string) error {
	sqlDB, err := database.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return err
	}

	fmt.Println("Database connection OK")
	return nil
}
