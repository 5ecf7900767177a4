package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teamKimtaerin/ecg-player/animation"
	cfg "github.com/teamKimtaerin/ecg-player/config"
	"github.com/teamKimtaerin/ecg-player/layout"
	"github.com/teamKimtaerin/ecg-player/loader"
	"github.com/teamKimtaerin/ecg-player/player"
	"github.com/teamKimtaerin/ecg-player/projection"
	"github.com/teamKimtaerin/ecg-player/render"
	"github.com/teamKimtaerin/ecg-player/resolver"
	"github.com/teamKimtaerin/ecg-player/timing"
)

func newRootCmd(conf *cfg.Root) *cobra.Command {
	root := &cobra.Command{
		Use:           "ecg-player",
		Short:         "Caption With Intention sync engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newValidateCmd(),
		newInspectCmd(),
		newPreviewCmd(conf),
		newRenderCmd(conf),
		newConfigCmd(),
	)
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|url>",
		Short: "Load a timing document and report whether it is well-formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			words := 0
			for i := range doc.SyncEvents {
				words += len(doc.SyncEvents[i].Words)
			}
			fmt.Printf("ok: version=%s events=%d words=%d duration=%.2fs precision=%dms\n",
				doc.Version, len(doc.SyncEvents), words, doc.TotalDuration, doc.SyncPrecisionMS)
			return nil
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file|url>",
		Short: "Print the document's events, windows and animation kinds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for i := range doc.SyncEvents {
				ev := &doc.SyncEvents[i]
				kinds := map[string]int{}
				for wi := range ev.Words {
					kinds[ev.Words[wi].Resolved.Kind.String()]++
				}
				var parts []string
				for _, k := range sortedKeys(kinds) {
					parts = append(parts, fmt.Sprintf("%s=%d", k, kinds[k]))
				}
				fmt.Printf("%-12s %-10s pre[%6.2f %6.2f] words=%-3d %s\n",
					ev.EventID, ev.SpeakerID, ev.PreReading.Start, ev.PreReading.End,
					len(ev.Words), strings.Join(parts, " "))
			}
			return nil
		},
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newPreviewCmd(conf *cfg.Root) *cobra.Command {
	var (
		fps    int
		from   float64
		to     float64
		offset float64
	)
	cmd := &cobra.Command{
		Use:   "preview <file|url>",
		Short: "Drive the full pipeline over the document timeline and log segment changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if to <= 0 {
				to = doc.TotalDuration
			}

			if !cmd.Flags().Changed("offset") {
				offset = conf.SyncOffset
			}
			p := player.New(player.Options{
				SyncOffset: offset,
				Viewport:   animation.Viewport{W: conf.Viewport.Width, H: conf.Viewport.Height},
			})
			defer p.Close()

			type shown struct {
				slot    projection.Slot
				eventID string
				segment int
			}
			last := map[projection.Slot]shown{}
			p.OnSnapshot(func(s projection.Snapshot) {
				for _, b := range s.Boxes {
					cur := shown{slot: b.Slot, eventID: b.EventID, segment: b.Segment}
					if last[b.Slot] == cur {
						continue
					}
					last[b.Slot] = cur
					slot := "primary"
					if b.Slot == projection.SlotSecondary {
						slot = "secondary"
					}
					fmt.Printf("%8.3f  %-9s %-12s %-10s seg=%d  %s\n",
						s.Time, slot, b.EventID, b.Speaker, b.Segment, b.Text)
				}
			})
			p.Load(doc)

			step := 1.0 / float64(fps)
			for t := from; t <= to; t += step {
				p.Seek(t)
			}
			p.Flush()
			return nil
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "simulated sample rate")
	cmd.Flags().Float64Var(&from, "from", 0, "start time, sec")
	cmd.Flags().Float64Var(&to, "to", 0, "end time, sec (default: total_duration)")
	cmd.Flags().Float64Var(&offset, "offset", 0, "sync offset, sec (default from config)")
	return cmd
}

func newRenderCmd(conf *cfg.Root) *cobra.Command {
	var (
		at     float64
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "render <file|url>",
		Short: "Render one projected caption frame to HTML or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = conf.Render.Format
			}
			vp := animation.Viewport{W: conf.Viewport.Width, H: conf.Viewport.Height}

			snap := projectAt(doc, at, conf.SyncOffset, vp)
			html, err := render.HTML(snap, vp)
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "html":
				data = []byte(html)
			case "png":
				ctx, cancel := context.WithTimeout(cmd.Context(), conf.ChromeTimeout())
				defer cancel()
				data, err = render.PNG(ctx, html)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format %q (html, png)", format)
			}

			if out == "" {
				out = filepath.Join(conf.Render.OutDir, fmt.Sprintf("caption-%.3f.%s", at, format))
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logrus.WithFields(logrus.Fields{"path": out, "bytes": len(data)}).Info("frame rendered")
			return nil
		},
	}
	cmd.Flags().Float64Var(&at, "at", 0, "media time to render, sec")
	cmd.Flags().StringVar(&format, "format", "", "html or png (default from config)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path")
	return cmd
}

// projectAt runs the pipeline once for a single timestamp, outside any
// player loop.
func projectAt(doc *timing.Document, t, offset float64, vp animation.Viewport) projection.Snapshot {
	eng := layout.New(doc.Effective())
	anim := animation.NewManager()
	frame := resolver.Resolve(doc, t, offset)
	for _, l := range []*resolver.Live{frame.Primary, frame.Secondary} {
		if l == nil {
			continue
		}
		seg, _ := eng.SegmentFor(l.Event, frame.Adjusted, vp.W, vp.H)
		anim.Track(l.Event, seg, vp)
	}
	anim.UpdateWave(frame.Adjusted)
	return projection.Project(frame, eng, anim, doc.Effective(), vp)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented ecg-player.yaml into the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.WriteTemplate("ecg-player.yaml"); err != nil {
				return err
			}
			fmt.Println("wrote ecg-player.yaml")
			return nil
		},
	})
	return cmd
}
