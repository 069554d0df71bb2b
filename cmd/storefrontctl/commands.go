package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/db"
	"storefront/internal/models"
	"storefront/internal/utils"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Connect migrates on success
		if _, err := db.Connect(cfg); err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}

var seedAdmin struct {
	name, email, phone, password string
	generate                     bool
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first ADMIN account when none exists",
	Long: `Create the first ADMIN account from ADMIN_* variables. Flags override
the environment. Nothing happens when an admin already exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		admin := cfg.Admin
		if seedAdmin.name != "" {
			admin.Name = seedAdmin.name
		}
		if seedAdmin.email != "" {
			admin.Email = seedAdmin.email
		}
		if seedAdmin.phone != "" {
			admin.Phone = seedAdmin.phone
		}
		if seedAdmin.password != "" {
			admin.Password = seedAdmin.password
		}
		if seedAdmin.generate {
			generated, err := utils.GenerateRandomString(20)
			if err != nil {
				return err
			}
			admin.Password = generated
		}

		gdb, err := db.Connect(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		created, err := models.SeedAdmin(gdb, admin, cfg.Auth.BcryptCost)
		if errors.Is(err, models.ErrAdminSeedIncomplete) {
			return fmt.Errorf("%w (or pass --email/--phone and --password)", err)
		}
		if err != nil {
			return err
		}

		if created {
			fmt.Fprintln(cmd.OutOrStdout(), "Admin created")
			if seedAdmin.generate {
				fmt.Fprintf(cmd.OutOrStdout(), "Password: %s\n", admin.Password)
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "An admin already exists")
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := utils.HashPassword(args[0], cfg.Auth.BcryptCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hashed)
		return nil
	},
}

var dumpConfigOut string

var dumpConfigCmd = &cobra.Command{
	Use:   "dump-config",
	Short: "Write the resolved configuration, secrets included, to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Save(dumpConfigOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", dumpConfigOut)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedAdmin.name, "name", "", "admin display name")
	seedAdminCmd.Flags().StringVar(&seedAdmin.email, "email", "", "admin email")
	seedAdminCmd.Flags().StringVar(&seedAdmin.phone, "phone", "", "admin phone number")
	seedAdminCmd.Flags().StringVar(&seedAdmin.password, "password", "", "admin password")
	seedAdminCmd.Flags().BoolVar(&seedAdmin.generate, "generate-password", false, "generate a random password and print it")
	seedAdminCmd.MarkFlagsMutuallyExclusive("password", "generate-password")

	dumpConfigCmd.Flags().StringVarP(&dumpConfigOut, "out", "o", "config.json", "output file")
}
