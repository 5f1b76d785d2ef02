package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andresmejia3/rosterface/internal/config"
	"github.com/andresmejia3/rosterface/internal/imageio"
	"github.com/andresmejia3/rosterface/internal/portrait"
	"github.com/andresmejia3/rosterface/internal/types"
	"github.com/andresmejia3/rosterface/internal/utils"
)

var showCmd = &cobra.Command{
	Use:   "show <character|portrait>",
	Short: "Analyze one portrait and print the result without writing the map",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runShow(os.Stdout, cfg, args[0]); err != nil {
			utils.Die("Failed to analyze portrait", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// showPath maps a character identifier to its JPEG portrait in dir.
// Anything that already names an image file is used as given.
func showPath(dir, arg string) string {
	if imageio.IsImage(arg) {
		return resolvePortrait(dir, arg)
	}
	return filepath.Join(dir, arg+".jpg")
}

func runShow(w io.Writer, c config.Config, arg string) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	path := showPath(c.ImageDir, arg)
	img, format, err := imageio.Load(path)
	if err != nil {
		return err
	}
	id := imageio.Stem(path)
	a := portrait.Analyze(img)
	e := portrait.NewEntry(id, a, reg)
	writeShow(w, id, format, a, e)
	return nil
}

func writeShow(w io.Writer, id, format string, a types.Analysis, e types.CharacterEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	fmt.Fprintf(tw, "character\t%s\n", id)
	fmt.Fprintf(tw, "format\t%s\n", format)
	fmt.Fprintf(tw, "size\t%dx%d\n", a.Width, a.Height)
	fmt.Fprintf(tw, "content height\t%d\n", a.ContentHeight)
	if a.ContentWidth > 0 {
		fmt.Fprintf(tw, "content width\t%d\n", a.ContentWidth)
	}
	fmt.Fprintf(tw, "face center\t(%d, %d)\n", e.FaceCenter.X, e.FaceCenter.Y)
	fmt.Fprintf(tw, "characters\t%d\n", e.NumCharacters)
	fmt.Fprintf(tw, "scale\t%.3f\n", float64(e.Scale))
	tw.Flush()
}
