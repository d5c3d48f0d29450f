package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vkscan/pkg/auth"
	"vkscan/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage VK access tokens",
	Long: `Manage stored VK access tokens.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (VKSCAN_ACCESS_TOKEN, read only)

Never share your tokens or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a VK access token securely",
	Long: `Store a VK access token in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (defaults to "default")
  - The access token (hidden as you type)
  - Your numeric VK user id (optional)`,
	Example: `  # Interactive login
  vkscan auth login

  # Login under a name
  vkscan auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored tokens",
	Long: `Remove a stored token by account name. Without a name you choose from
the stored accounts, or remove all of them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked tokens.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// guideCmd represents the auth guide command
var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show how to obtain a VK access token",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		auth.ShowTokenGuide()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(guideCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	name := "default"
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	} else {
		fmt.Print("Account name [default]: ")
		input, _ := reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			name = input
		}
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\nAccount '%s' already exists. Replace its token? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	auth.ShowQuickTokenGuide()

	var token string
	for {
		fmt.Print("\nAccess token: ")
		token, err = readSecret(reader)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}

		if token == "help" {
			auth.ShowTokenGuide()
			continue
		}
		if len(token) < 32 || strings.ContainsAny(token, " &=#") {
			fmt.Println("\nThat doesn't look like an access token.")
			fmt.Println("   Copy only the value after 'access_token=' up to the next '&'.")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				return auth.ErrInvalidCredentials
			}
			continue
		}
		break
	}

	var userID int64
	fmt.Print("VK user id (optional): ")
	if input, _ := reader.ReadString('\n'); strings.TrimSpace(input) != "" {
		userID, err = strconv.ParseInt(strings.TrimSpace(input), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
	}

	account := &auth.Account{
		Name:         name,
		AccessToken:  token,
		UserID:       userID,
		LastModified: time.Now(),
	}
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", name))
	if auth.IsKeyringAvailable() {
		ui.PrintInfo("Stored in", "system keychain and encrypted file")
	} else {
		ui.PrintInfo("Stored in", "encrypted file")
	}
	if name != "default" {
		ui.PrintInfo("Use it with", "vkscan scan --account "+name)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if len(args) > 0 {
		if err := manager.Delete(args[0]); err != nil {
			return fmt.Errorf("failed to remove account: %w", err)
		}
		ui.PrintSuccess("Account removed: " + args[0])
		return nil
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintWarning("No stored accounts found")
		return nil
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Name)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Printf("  0. Cancel\n\n")

	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')
	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("invalid choice %q", strings.TrimSpace(input))
	}

	switch {
	case choice == 0:
		return nil
	case choice == len(accounts)+1:
		fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return nil
		}
		if err := manager.DeleteAll(); err != nil {
			return fmt.Errorf("failed to remove all accounts: %w", err)
		}
		ui.PrintSuccess("All accounts removed")
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Name); err != nil {
			return fmt.Errorf("failed to remove account: %w", err)
		}
		ui.PrintSuccess("Account removed: " + account.Name)
	default:
		return fmt.Errorf("invalid choice %d", choice)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'vkscan auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	out := cmd.OutOrStdout()
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Fprintf(out, "\n%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Fprintf(out, "   Token: %s\n", sanitized.AccessToken)
		if sanitized.UserID != 0 {
			fmt.Fprintf(out, "   User ID: %d\n", sanitized.UserID)
		}
		fmt.Fprintf(out, "   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
