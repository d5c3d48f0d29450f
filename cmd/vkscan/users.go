package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vkscan/internal/ingest"
	"vkscan/pkg/logger"
	"vkscan/pkg/ui"
)

// addUsersCmd represents the add-users command
var addUsersCmd = &cobra.Command{
	Use:   "add-users [file]",
	Short: "Resolve VK handles and store them as users",
	Long: `Read one VK handle per line, resolve each to its numeric id and store it.

Blank lines are skipped. Numeric handles are used as ids directly. The file
defaults to scan.users_file from the configuration (users.txt).`,
	Example: `  # Add the users listed in users.txt
  vkscan add-users

  # Add users from another file
  vkscan add-users friends.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAddUsers,
}

// listUsersCmd represents the users command
var listUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List stored users",
	Args:  cobra.NoArgs,
	RunE:  runListUsers,
}

// removeUserCmd represents the remove-user command
var removeUserCmd = &cobra.Command{
	Use:   "remove-user <id>",
	Short: "Remove a stored user and its video links",
	Long: `Remove a user by numeric id. Its uservideo rows are removed with it;
the videos themselves stay in the catalogue.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemoveUser,
}

func init() {
	rootCmd.AddCommand(addUsersCmd)
	rootCmd.AddCommand(listUsersCmd)
	rootCmd.AddCommand(removeUserCmd)
}

func runAddUsers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Scan.UsersFile
	if len(args) > 0 {
		path = args[0]
	}

	ctx := cmd.Context()
	db, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ui.PrintInfo("Reading users from", path)
	result, err := ingest.New(client, store, logger.GetLogger()).AddUsersFromFile(ctx, path)
	if result != nil && len(result.Users) > 0 {
		ui.PrintTable(ui.UserTable(result.Users))
	}
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Stored %d users", len(result.Users)))
	return nil
}

func runListUsers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ui.PrintWarning("No users stored, run 'vkscan add-users' first")
		return nil
	}

	ui.PrintTable(ui.UserTable(users))
	return nil
}

func runRemoveUser(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.DeleteUser(ctx, id); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Removed user %d", id))
	return nil
}
