package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-devpick/internal/palette"
)

type paletteOptions struct {
	name   string
	width  int
	height int
}

func newPaletteCmd(root *rootOptions) *cobra.Command {
	opts := &paletteOptions{}
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Manage saved colors",
	}
	cmd.PersistentFlags().StringVarP(&opts.name, "name", "n", palette.DefaultName, "palette name")

	export := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a palette as .gpl, .png, .hex or .txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaletteExport(cmd, root, opts, args[0])
		},
	}
	export.Flags().IntVar(&opts.width, "width", 512, "PNG width")
	export.Flags().IntVar(&opts.height, "height", 64, "PNG height")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List palettes, or the colors of --name when given",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPaletteList(cmd, root, opts)
			},
		},
		&cobra.Command{
			Use:   "add COLOR...",
			Short: "Add colors to a palette",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPaletteEdit(cmd, root, opts, args, true)
			},
		},
		&cobra.Command{
			Use:   "remove COLOR...",
			Short: "Remove colors from a palette",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPaletteEdit(cmd, root, opts, args, false)
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Delete the palette named by --name",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := paletteStore(root)
				if err != nil {
					return err
				}
				if _, err := store.Update(func(lib *palette.Library) error {
					return lib.Delete(opts.name)
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", opts.name)
				return nil
			},
		},
		export,
	)
	return cmd
}

func paletteStore(root *rootOptions) (*palette.Store, error) {
	settings, path, err := root.loadSettings()
	if err != nil {
		return nil, err
	}
	return palette.NewStore(settings.PalettePath(path)), nil
}

func runPaletteList(cmd *cobra.Command, root *rootOptions, opts *paletteOptions) error {
	store, err := paletteStore(root)
	if err != nil {
		return err
	}
	lib, err := store.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("name") {
		p, err := lib.Get(opts.name)
		if err != nil {
			return err
		}
		hex := p.Hex()
		for i, c := range p.Colors {
			fmt.Fprintf(out, "%s %s\n", swatch(out, c), hex[i])
		}
		return nil
	}

	if len(lib.Palettes) == 0 {
		fmt.Fprintln(out, "no saved colors")
		return nil
	}
	for _, p := range lib.Palettes {
		fmt.Fprintf(out, "%-12s %3d ", p.Name, p.Len())
		for _, c := range p.Colors {
			fmt.Fprint(out, swatchStyle(out, c).Render("  "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runPaletteEdit(cmd *cobra.Command, root *rootOptions, opts *paletteOptions, args []string, add bool) error {
	cs, err := parseColors(args)
	if err != nil {
		return err
	}
	store, err := paletteStore(root)
	if err != nil {
		return err
	}

	changed := 0
	lib, err := store.Update(func(lib *palette.Library) error {
		var p *palette.Palette
		var err error
		if add {
			p, err = lib.Ensure(opts.name)
		} else {
			p, err = lib.Get(opts.name)
		}
		if err != nil {
			return err
		}
		for _, c := range cs {
			if (add && p.Add(c)) || (!add && p.Remove(c)) {
				changed++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p, _ := lib.Get(opts.name)
	verb := "added"
	if !add {
		verb = "removed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d color(s); %q has %d\n", verb, changed, opts.name, p.Len())
	return nil
}

func runPaletteExport(cmd *cobra.Command, root *rootOptions, opts *paletteOptions, path string) error {
	store, err := paletteStore(root)
	if err != nil {
		return err
	}
	lib, err := store.Load()
	if err != nil {
		return err
	}
	p, err := lib.Get(opts.name)
	if err != nil {
		return err
	}
	if err := palette.Export(path, p, opts.width, opts.height); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %q to %s\n", opts.name, path)
	return nil
}
