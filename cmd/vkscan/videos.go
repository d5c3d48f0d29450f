package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vkscan/pkg/ui"
)

var storedOnly bool

// videosCmd represents the videos command
var videosCmd = &cobra.Command{
	Use:   "videos <handle>",
	Short: "Show the videos of one VK user",
	Long: `Resolve a handle and list its videos the same way scan does, without
writing anything. With --stored the catalogue is read instead of VK.`,
	Example: `  # Look up a user's videos on VK
  vkscan videos durov

  # Show what the catalogue holds for user 1
  vkscan videos 1 --stored`,
	Args: cobra.ExactArgs(1),
	RunE: runVideos,
}

func init() {
	rootCmd.AddCommand(videosCmd)
	videosCmd.Flags().BoolVar(&storedOnly, "stored", false, "read stored videos instead of calling VK")
}

func runVideos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ownerID, err := client.ResolveUserID(ctx, args[0])
	if err != nil {
		return err
	}

	if storedOnly {
		db, store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		videos, err := store.VideosForUser(ctx, ownerID)
		if err != nil {
			return err
		}
		ui.PrintInfo("Stored videos", fmt.Sprint(len(videos)))
		ui.PrintTable(ui.VideoTable(videos))
		return nil
	}

	res, err := newResolver(client).Resolve(ctx, ownerID)
	if err != nil {
		return err
	}

	ui.PrintInfo("User id", fmt.Sprint(res.OwnerID))
	ui.PrintInfo("Source", string(res.Source))
	if res.APIError != nil {
		ui.PrintWarning("video.get error", res.APIError)
	}
	if len(res.Videos) == 0 {
		ui.PrintWarning("No videos found")
		return nil
	}
	ui.PrintTable(ui.VideoTable(res.Videos))
	return nil
}
