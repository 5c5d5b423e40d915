package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playvdk/vdk/av"
	"github.com/playvdk/vdk/internal/config"
	"github.com/playvdk/vdk/scheduler"

	_ "github.com/playvdk/vdk/codec/aacparser"
	_ "github.com/playvdk/vdk/codec/vorbisparser"
	_ "github.com/playvdk/vdk/codec/vpxdecoder"
	_ "github.com/playvdk/vdk/format/gif"
	_ "github.com/playvdk/vdk/format/mkv"
	_ "github.com/playvdk/vdk/format/mp4"
	_ "github.com/playvdk/vdk/format/ogg"
)

var mimeType string

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Decode a file and print its presentation timeline to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVar(&mimeType, "mime", "", "container MIME type (required: image/gif, video/mp4, audio/ogg, video/webm, ...)")
	if err := dumpCmd.MarkFlagRequired("mime"); err != nil {
		panic(err)
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	stream := &av.FileStreamReader{ReadSeeker: f, Size: info.Size()}

	syncCfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("resolving sync configuration: %w", err)
	}

	player, err := scheduler.New(stream, mimeType, syncCfg.AVConfig(), scheduler.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("opening %s as %s: %w", path, mimeType, err)
	}

	out := cmd.OutOrStdout()
	frameCount := 0
	for {
		if err := player.DecodeFrame(); err != nil {
			if errors.Is(err, av.ErrNoMoreClusters) {
				break
			}
			return fmt.Errorf("decoding frame %d: %w", frameCount, err)
		}
		frame, err := player.Advance()
		if err != nil {
			return fmt.Errorf("advancing past frame %d: %w", frameCount, err)
		}

		audioSamples := 0
		if len(frame.Audio) > 0 {
			audioSamples = len(frame.Audio[0])
		}
		pts, _ := player.LastFramePresentationTime()
		fmt.Fprintf(out, "frame %d: pts=%s audio_samples=%d\n", frameCount, pts.Duration(), audioSamples)
		frameCount++
	}

	fmt.Fprintf(out, "done: %d frames\n", frameCount)
	return nil
}
