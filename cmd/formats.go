package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smazurov/mjpeggrab/internal/devices"
	"github.com/smazurov/mjpeggrab/pkg/linuxav/v4l2"
)

// CreateFormatsCmd creates the formats command.
func CreateFormatsCmd() *cobra.Command {
	var showRates bool

	cmd := &cobra.Command{
		Use:   "formats [device]",
		Short: "Show supported formats for a capture device",
		Long: `Enumerates pixel formats, resolutions and, optionally, framerates ` +
			`for a capture device. The device may be a /dev path or a stable ID.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			device := "/dev/video0"
			if len(args) == 1 {
				device = args[0]
			}

			path, err := devices.ResolvePath(device)
			if err != nil {
				return err
			}

			formats, err := v4l2.GetFormats(path)
			if err != nil {
				return fmt.Errorf("enumerating formats on %s: %w", path, err)
			}

			for _, f := range formats {
				label := f.FormatName
				if f.Emulated {
					label += " (emulated)"
				}
				fmt.Printf("%s [%s]\n", label, v4l2.FormatFourCC(f.PixelFormat))

				resolutions, err := v4l2.GetResolutions(path, f.PixelFormat)
				if err != nil {
					fmt.Printf("  resolutions unavailable: %v\n", err)
					continue
				}
				for _, r := range resolutions {
					if !showRates {
						fmt.Printf("  %dx%d\n", r.Width, r.Height)
						continue
					}
					rates, err := v4l2.GetFramerates(path, f.PixelFormat, r.Width, r.Height)
					if err != nil {
						fmt.Printf("  %dx%d\n", r.Width, r.Height)
						continue
					}
					fmt.Printf("  %dx%d:", r.Width, r.Height)
					for _, fr := range rates {
						fmt.Printf(" %.4g", fr.FPS())
					}
					fmt.Println(" fps")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showRates, "rates", "r", false, "include framerates per resolution")
	return cmd
}
