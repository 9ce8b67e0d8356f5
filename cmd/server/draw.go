package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/storycards/internal/cards"
	imagepkg "github.com/youruser/storycards/internal/image"
	"github.com/youruser/storycards/internal/session"
	"github.com/youruser/storycards/internal/util"
)

var (
	drawPhotos        bool
	drawIllustrations bool
	drawSeed          uint64
	drawRenderDir     string
)

var drawCmd = &cobra.Command{
	Use:   "draw [count]",
	Short: "Generate a batch, reveal every card and print the images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := cards.ParseCount(args[0], cfg.Cards.Count)
		if err != nil {
			return err
		}
		pools := imagepkg.PoolConfig{Photos: drawPhotos, Illustrations: drawIllustrations}
		if err := pools.Validate(); err != nil {
			return err
		}
		illustrations, err := cfg.Illustrations()
		if err != nil {
			return err
		}

		var rng imagepkg.RandomSource
		if cmd.Flags().Changed("seed") {
			rng = imagepkg.NewSeededRNG(drawSeed)
		}
		alloc := imagepkg.NewAllocator(illustrations, rng)
		alloc.PhotoPoolSize = cfg.Images.PhotoPoolSize
		alloc.PhotoURLTemplate = cfg.Images.PhotoURLTemplate

		s, err := session.New(cards.Generate(count, cards.PastelColors, rng), pools, alloc, cards.PolicySticky)
		if err != nil {
			return err
		}
		revealed, err := s.RevealAll()
		if err != nil {
			return err
		}

		photo := color.New(color.FgCyan)
		illus := color.New(color.FgMagenta)
		for _, c := range revealed {
			p := illus
			if c.ImageKind == string(imagepkg.KindPhoto) {
				p = photo
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s  ", c.ID, c.Color)
			p.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", c.ImageKind, c.ImageRef)

			if drawRenderDir != "" {
				if err := renderBack(c); err != nil {
					return err
				}
			}
		}
		if drawRenderDir != "" {
			logger.Info("card backs written", zap.String("dir", drawRenderDir), zap.Int("cards", len(revealed)))
		}
		return nil
	},
}

func renderBack(c cards.Card) error {
	from, to, err := cards.Gradient(c.Color)
	if err != nil {
		return err
	}
	b, err := imagepkg.EncodePNG(imagepkg.RenderCardBack(from, to, imagepkg.CardWidth, imagepkg.CardHeight))
	if err != nil {
		return err
	}
	p, err := util.WriteFile(drawRenderDir, fmt.Sprintf("card-%02d.png", c.ID), b)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(p), err)
	}
	return nil
}

func init() {
	drawCmd.Flags().BoolVar(&drawPhotos, "photos", true, "draw from the photo pool")
	drawCmd.Flags().BoolVar(&drawIllustrations, "illustrations", true, "draw from the illustration pool")
	drawCmd.Flags().Uint64Var(&drawSeed, "seed", 0, "seed for a reproducible batch")
	drawCmd.Flags().StringVar(&drawRenderDir, "render", "", "also write each card back as PNG into this directory")
}
