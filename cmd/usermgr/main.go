// Offline user manager for go-pressleaf
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/go-while/go-pressleaf/internal/config"
	"github.com/go-while/go-pressleaf/internal/database"
	"github.com/go-while/go-pressleaf/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("go-pressleaf User Manager (version: %s)", config.AppVersion)
	var (
		createUser = flag.Bool("create", false, "Create a new user")
		listUsers  = flag.Bool("list", false, "List all users")
		deleteUser = flag.Bool("delete", false, "Delete a user")
		updateUser = flag.Bool("update", false, "Update a user's password")
		username   = flag.String("username", "", "Username for user operations")
		email      = flag.String("email", "", "Email for user creation")
		name       = flag.String("name", "", "Display name for user creation")
		dataDir    = flag.String("datadir", "", "Directory holding the database file (default: ./data)")
	)
	flag.Parse()

	if !*createUser && !*listUsers && !*deleteUser && !*updateUser {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create -username johndoe -email john@example.com -name \"John Doe\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -update -username johndoe\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete -username johndoe\n", os.Args[0])
		os.Exit(1)
	}

	dbConfig := database.DefaultDBConfig()
	if *dataDir != "" {
		dbConfig.DataDir = *dataDir
	}
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	switch {
	case *createUser:
		if *username == "" {
			log.Fatal("Username is required for user creation")
		}
		if *email == "" {
			log.Fatal("Email is required for user creation")
		}
		if err := createNewUser(db, *username, *email, *name); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

	case *listUsers:
		if err := listAllUsers(db); err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}

	case *deleteUser:
		if *username == "" {
			log.Fatal("Username is required for user deletion")
		}
		if err := deleteExistingUser(db, *username); err != nil {
			log.Fatalf("Failed to delete user: %v", err)
		}

	case *updateUser:
		if *username == "" {
			log.Fatal("Username is required for user update")
		}
		if err := updateUserPassword(db, *username); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}
	}
}

// promptPassword reads a password from the terminal without echoing it
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func createNewUser(db *database.Database, username, email, name string) error {
	if name == "" {
		name = username
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.InsertUser(user); err != nil {
		if database.IsUniqueConstraintError(err) {
			return fmt.Errorf("username %q already exists", username)
		}
		return err
	}

	log.Printf("Created user %s", username)
	return nil
}

func listAllUsers(db *database.Database) error {
	users, err := db.GetAllUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}
	fmt.Printf("%-6s %-35s %-25s %s\n", "ID", "USERNAME", "NAME", "EMAIL")
	for _, u := range users {
		fmt.Printf("%-6d %-35s %-25s %s\n", u.ID, u.Username, u.Name, u.Email)
	}
	return nil
}

func deleteExistingUser(db *database.Database, username string) error {
	// Drop any live sessions first so the account can't keep acting
	if err := db.DeleteSessionsByUsername(username); err != nil {
		return err
	}
	if err := db.DeleteUserByUsername(username); err != nil {
		return fmt.Errorf("no such user %q", username)
	}
	log.Printf("Deleted user %s", username)
	return nil
}

func updateUserPassword(db *database.Database, username string) error {
	if _, err := db.GetUserByUsername(username); err != nil {
		return fmt.Errorf("no such user %q", username)
	}

	password, err := promptPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := db.UpdateUserPassword(username, string(hash)); err != nil {
		return err
	}

	// Existing sessions die with the old password
	if err := db.DeleteSessionsByUsername(username); err != nil {
		return err
	}

	log.Printf("Updated password for user %s", username)
	return nil
}
