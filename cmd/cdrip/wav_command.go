package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cdrip/internal/toc"
	"cdrip/internal/wave"
)

type wavInfo struct {
	Path              string `json:"path"`
	Sectors           int    `json:"sectors"`
	AudioBytes        int    `json:"audio_bytes"`
	Length            string `json:"length"`
	Offset            int    `json:"offset"`
	PadMissingSamples bool   `json:"pad_missing_samples"`
}

func newWavCommand(ctx *commandContext) *cobra.Command {
	wavCmd := &cobra.Command{
		Use:   "wav",
		Short: "Inspect and correct ripped WAV files",
	}
	wavCmd.AddCommand(newWavInfoCommand(ctx))
	wavCmd.AddCommand(newWavOffsetCommand(ctx))
	wavCmd.AddCommand(newWavSpliceCommand(ctx))
	return wavCmd
}

func describeWave(buf *wave.Buffer) wavInfo {
	return wavInfo{
		Path:              buf.Path(),
		Sectors:           buf.NumSectors(),
		AudioBytes:        len(buf.AudioData()),
		Length:            toc.FormatDuration(buf.NumSectors()),
		Offset:            buf.Offset(),
		PadMissingSamples: buf.PadMissingSamples(),
	}
}

func (c *commandContext) emitWave(cmd *cobra.Command, info wavInfo) error {
	return c.emit(cmd, info, func() error {
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
			Headers: []string{"Field", "Value"},
			Rows: [][]string{
				{"Path", info.Path},
				{"Sectors", strconv.Itoa(info.Sectors)},
				{"Audio bytes", strconv.Itoa(info.AudioBytes)},
				{"Length", info.Length},
				{"Offset", strconv.Itoa(info.Offset)},
				{"Pad missing samples", yesNo(info.PadMissingSamples)},
			},
		}))
		return nil
	})
}

func newWavInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.wav>",
		Short: "Show sector count and length of a CD audio WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := wave.Open(args[0])
			if err != nil {
				return err
			}
			return ctx.emitWave(cmd, describeWave(buf))
		},
	}
}

func newWavOffsetCommand(ctx *commandContext) *cobra.Command {
	var frames int
	var pad bool

	cmd := &cobra.Command{
		Use:   "offset <file.wav>",
		Short: "Shift audio by the drive read offset and rewrite the file",
		Long: "Shift audio by the drive read offset and rewrite the file.\n\n" +
			"The offset defaults to drive.read_offset in sample frames. Positive offsets\n" +
			"drop samples from the start, negative offsets from the end. Without padding\n" +
			"the file shrinks by the shifted samples.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := wave.Open(args[0])
			if err != nil {
				return err
			}
			buf.Apply(ctx.config.OffsetConfig())
			if cmd.Flags().Changed("frames") {
				buf.SetOffset(frames)
			}
			if cmd.Flags().Changed("pad") {
				buf.SetPadMissingSamples(pad)
			}
			if buf.Offset() == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Read offset is 0; file left unchanged")
				return ctx.emitWave(cmd, describeWave(buf))
			}
			if err := buf.Save(); err != nil {
				return err
			}
			saved, err := wave.Open(args[0])
			if err != nil {
				return err
			}
			info := describeWave(saved)
			info.Offset = buf.Offset()
			info.PadMissingSamples = buf.PadMissingSamples()
			return ctx.emitWave(cmd, info)
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 0, "Read offset in sample frames (overrides drive.read_offset)")
	cmd.Flags().BoolVar(&pad, "pad", false, "Fill shifted samples with silence (overrides drive.pad_missing_samples)")
	return cmd
}

func newWavSpliceCommand(ctx *commandContext) *cobra.Command {
	var sector int
	var fromPath string
	var fromSector int
	var frames int

	cmd := &cobra.Command{
		Use:   "splice <file.wav>",
		Short: "Replace one sector with the same sector from another rip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromPath == "" {
				return fmt.Errorf("--from is required")
			}
			if !cmd.Flags().Changed("from-sector") {
				fromSector = sector
			}
			// Both files are usually offset corrected already, so the
			// configured read offset only applies when asked for.
			cfg := wave.OffsetConfig{PadMissingSamples: ctx.config.Drive.PadMissingSamples}
			if cmd.Flags().Changed("frames") {
				cfg.Frames = frames
			}

			source, err := wave.Open(fromPath)
			if err != nil {
				return err
			}
			source.Apply(cfg)
			data, err := source.Read(fromSector)
			if err != nil {
				return fmt.Errorf("read sector %d of %s: %w", fromSector, fromPath, err)
			}

			target, err := wave.Open(args[0])
			if err != nil {
				return err
			}
			target.Apply(cfg)
			if err := target.Splice(sector, data); err != nil {
				return fmt.Errorf("splice sector %d: %w", sector, err)
			}
			if err := target.Save(); err != nil {
				return err
			}
			if !ctx.jsonMode() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Replaced sector %d of %s with sector %d of %s\n", sector, args[0], fromSector, fromPath)
			}
			return ctx.emitWave(cmd, describeWave(target))
		},
	}

	cmd.Flags().IntVar(&sector, "sector", 0, "Sector to replace")
	cmd.Flags().StringVar(&fromPath, "from", "", "WAV file to copy the sector from")
	cmd.Flags().IntVar(&fromSector, "from-sector", 0, "Sector to copy (defaults to --sector)")
	cmd.Flags().IntVar(&frames, "frames", 0, "Read offset in sample frames applied to both files before splicing")
	return cmd
}
