package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandSeedAdmin(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUser(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableCampaign(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableSubmission(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePrivateInvitation(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePrivateSubmission(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePerformanceMetric(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// seed-admin creates the reconciliation console account. Registration never
// mints admins, so this is the only way one comes into existence.
func commandSeedAdmin() *cli.Command {
	return &cli.Command{
		Name: "seed-admin",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				"ADMIN_EMAIL",
				"ADMIN_PASSWORD",
			)
			if err != nil {
				return err
			}

			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			email := strings.ToLower(strings.TrimSpace(vs["ADMIN_EMAIL"]))
			existing, err := datastore.FindUserByEmail(ctx, db, email)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if existing != nil {
				fmt.Println("Admin already exists:", email)
				return nil
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(vs["ADMIN_PASSWORD"]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			name := os.Getenv("ADMIN_NAME")
			if name == "" {
				name = "Platform Admin"
			}

			now := time.Now()
			admin := &models.User{
				Name:         name,
				Email:        email,
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
				CreatedAt:    now,
				UpdatedAt:    now,
			}

			admin, err = datastore.CreateUser(ctx, db, admin)
			if err != nil {
				return err
			}

			fmt.Println("Admin created:", admin.Email)

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
