package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/swaroop-public12/dresscatalogue/internal/admins"
	"github.com/swaroop-public12/dresscatalogue/internal/config"
	"github.com/swaroop-public12/dresscatalogue/internal/sheets"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	username := addAdminCmd.String("username", "", "Username for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*username, *password)
	default:
		fmt.Println("expected 'add-admin' subcommand")
		os.Exit(1)
	}
}

func createAdmin(username, password string) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := sheets.NewClient(ctx, cfg.SheetID, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to connect to the spreadsheet: %v", err)
	}

	directory := admins.NewDirectory(client, cfg.AdminsTable)

	taken, err := directory.Exists(ctx, username)
	if err != nil {
		log.Fatalf("Failed to check existing admins: %v", err)
	}
	if taken {
		log.Fatalf("Admin '%s' already exists.", username)
	}

	if err := directory.SignUp(ctx, username, password); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", username)
}
