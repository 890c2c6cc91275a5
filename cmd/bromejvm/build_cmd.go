package main

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brome-lang/jvm"
	"github.com/brome-lang/jvm/internal/buildcache"
	"github.com/brome-lang/jvm/internal/recipe"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <recipe>",
		Short: "Build a class file from a recipe",
		Args:  cobra.ExactArgs(1),
		RunE:  buildHandler,
	}
	cmd.Flags().StringP("out", "o", "", "Output path (default: <ClassName>.class)")
	cmd.Flags().String("cache-dir", "", "Cache emitted classes in this directory")
	return cmd
}

func buildHandler(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := cmd.Context()

	recipePath := args[0]
	doc, err := os.ReadFile(recipePath)
	if err != nil {
		return err
	}
	outPath := viper.GetString("out")

	var cache *buildcache.Cache
	key := buildcache.Key(doc)
	if dir := viper.GetString("cache-dir"); dir != "" {
		cache, err = buildcache.Open(ctx, dir)
		if err != nil {
			return err
		}
		defer cache.Close()
		entry, ok, err := cache.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			logger.Debug().Str("class", entry.Name).Msg("build cache hit")
			return writeClass(logger, outPath, entry.Name, entry.Data)
		}
		logger.Debug().Msg("build cache miss")
	}

	class, err := recipe.Load(bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("%s: %w", recipePath, err)
	}
	data, err := jvm.Generate(class, jvm.WithLogger(logger))
	if err != nil {
		return err
	}

	if cache != nil {
		if err := cache.Put(ctx, key, class.Name, data); err != nil {
			return err
		}
	}
	return writeClass(logger, outPath, class.Name, data)
}

// writeClass writes the class file, defaulting the output path to the
// class's simple name. The name is an internal name, so its segments are
// separated by slashes.
func writeClass(logger zerolog.Logger, outPath, name string, data []byte) error {
	if outPath == "" {
		outPath = path.Base(name) + ".class"
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	logger.Info().
		Str("class", name).
		Str("path", outPath).
		Int("bytes", len(data)).
		Msg("wrote class file")
	return nil
}
