package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ppe-inspector/config"
	app "ppe-inspector/internal/application"
	"ppe-inspector/internal/container"
	"ppe-inspector/internal/infrastructure/vision"
)

func main() {
	imagePath := flag.String("image", "", "path to the image to check")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: ppecheck -image photo.jpg [-json]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl > zerolog.WarnLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	data, err := os.ReadFile(*imagePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read image")
	}
	img, err := vision.NewDecoder().Decode(data)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to decode image")
	}

	detector, err := container.NewDetector(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load detector")
	}

	svc := app.NewComplianceService(vision.NewQualityAssessor(), vision.NewCLAHEEnhancer(), detector, cfg.ResolverConfig())
	result, err := svc.Check(context.Background(), img)
	detector.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("compliance check failed")
	}

	if *asJSON {
		out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to encode result")
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(result.Verdict.Message())
		for _, r := range result.Verdict.Resolutions {
			fmt.Printf("  %-6s present=%-5t rule=%-15s top+=%.3f top-=%.3f\n",
				r.Equipment, r.Present, r.Rule, r.TopPositive, r.TopNegative)
		}
		if len(result.Quality.Issues) > 0 {
			fmt.Printf("quality: %s (sharpness %.1f, brightness %.1f)\n",
				strings.Join(result.Quality.Issues, ", "), result.Quality.Sharpness, result.Quality.Brightness)
		}
	}

	if !result.Verdict.Success {
		os.Exit(1)
	}
}
