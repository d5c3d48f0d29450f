package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide displays step-by-step instructions for obtaining a VK access token
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("VK ACCESS TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("vkscan calls users.get and video.get, which need a user access token")
	fmt.Println("with the 'video' scope. The simplest way to get one is the implicit flow:")
	fmt.Println()

	fmt.Println("STEP 1: Create a standalone app")
	fmt.Println("   - Go to https://vk.com/apps?act=manage and create a 'Standalone' app")
	fmt.Println("   - Copy its App ID from the settings page")
	fmt.Println()

	fmt.Println("STEP 2: Open the authorization URL in a browser where you are logged in")
	fmt.Println("   https://oauth.vk.com/authorize?client_id=<APP_ID>&display=page")
	fmt.Println("     &redirect_uri=https://oauth.vk.com/blank.html&scope=video,offline")
	fmt.Println("     &response_type=token&v=5.92")
	fmt.Println()

	fmt.Println("STEP 3: Allow access")
	fmt.Println("   - You are redirected to blank.html")
	fmt.Println("   - The address bar contains #access_token=...&expires_in=0&user_id=...")
	fmt.Println()

	fmt.Println("STEP 4: Copy the value of access_token")
	fmt.Println("   - Everything between 'access_token=' and the next '&'")
	fmt.Println("   - With the 'offline' scope the token does not expire (expires_in=0)")
	fmt.Println()

	fmt.Println("WARNING:")
	fmt.Println("   - The token grants API access to your account. Never share it.")
	fmt.Println("   - vkscan keeps it in the system keychain or an encrypted file.")
	fmt.Println("   - VK allows about 3 API requests per second per token.")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickTokenGuide shows a condensed version for experienced users
func ShowQuickTokenGuide() {
	fmt.Println("\nQuick Guide: oauth.vk.com/authorize?client_id=<APP_ID>&scope=video,offline&response_type=token")
	fmt.Println("   Need: the access_token value from the redirect URL")
	fmt.Println("   Type 'help' for detailed instructions")
}
