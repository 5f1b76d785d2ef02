package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/rosterface/internal/config"
	"github.com/andresmejia3/rosterface/internal/mapping"
	"github.com/andresmejia3/rosterface/internal/store"
	"github.com/andresmejia3/rosterface/internal/utils"
)

var (
	publishDB    string
	publishReset bool
	publishYes   bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Mirror the current map into PostgreSQL",
	Long: `Reads the map from its JSON sidecar (or the JS module when no sidecar exists)
and replaces the character_image_map table with it in a single transaction.
The table is created on first use.`,
	Run: func(cmd *cobra.Command, args []string) {
		url := publishDB
		if url == "" {
			url = cfg.Postgres.URL()
		}

		if publishReset && !publishYes {
			if !confirm(os.Stdin, "⚠️  Are you sure you want to DROP the character_image_map table first?") {
				publishReset = false
			}
		}

		res, err := runPublish(cmd.Context(), cfg, url, publishReset)
		if err != nil {
			utils.Die("Failed to publish map", err)
		}
		if res.Previous.IsZero() {
			fmt.Println("📭 No previous publish found")
		} else {
			fmt.Printf("🕒 Previous publish at %s\n", res.Previous.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("✅ Published %d characters\n", res.Count)
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishDB, "db", "", "PostgreSQL connection string (default: built from POSTGRES_* env vars)")
	publishCmd.Flags().BoolVar(&publishReset, "reset", false, "Drop the map table before publishing")
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(publishCmd)
}

// publishResult reports one publish. Previous is zero when the table was empty.
type publishResult struct {
	Count    int
	Previous time.Time
}

func runPublish(ctx context.Context, c config.Config, url string, reset bool) (publishResult, error) {
	var res publishResult
	m, err := mapping.Load(c.SidecarPath, c.MapPath)
	if err != nil {
		return res, fmt.Errorf("failed to read map: %w", err)
	}
	if len(m) == 0 {
		return res, fmt.Errorf("map at %s is empty, run analyze or clicks first", c.MapPath)
	}

	if reset {
		// Reset drops the table, so it runs on its own connection and New
		// recreates the schema afterwards.
		db, err := store.New(ctx, url)
		if err != nil {
			return res, fmt.Errorf("failed to connect to database: %w", err)
		}
		err = db.Reset(ctx)
		db.Close(ctx)
		if err != nil {
			return res, fmt.Errorf("failed to reset map table: %w", err)
		}
		fmt.Println("🗑️  Dropped character_image_map")
	}

	db, err := store.New(ctx, url)
	if err != nil {
		return res, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(ctx)

	if res.Previous, err = db.LastUpdated(ctx); err != nil {
		return res, fmt.Errorf("failed to read last publish time: %w", err)
	}
	if err := db.ReplaceMapping(ctx, m); err != nil {
		return res, err
	}
	res.Count = len(m)
	return res, nil
}

func confirm(r io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	res, _ := bufio.NewReader(r).ReadString('\n')
	res = strings.TrimSpace(strings.ToLower(res))
	return res == "y" || res == "yes"
}
