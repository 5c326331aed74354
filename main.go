package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/facette/natsort"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wildstyl3r/annihilation/internal/config"
	"github.com/wildstyl3r/annihilation/internal/sim"
	"github.com/wildstyl3r/annihilation/internal/storage"
	"github.com/wildstyl3r/annihilation/internal/utils"
)

func main() {
	dataFlags := sim.NewDataFlags(flag.CommandLine)
	var configFileName = flag.String("input", "annihilation", "run configuration in toml or yaml format")
	var verbose = flag.Bool("v", false, "verbose output")
	var threads = flag.Int("threads", runtime.NumCPU(), "worker goroutines per run")
	var outputDir = flag.String("o", "", "output directory, overrides OutputDir")
	var dbPath = flag.String("db", "", "sqlite database collecting run summaries")
	flag.Parse()

	startTime := time.Now()
	fmt.Printf("Current time: %s\n", startTime.UTC().Format(time.UnixDate))

	environment, err := config.ParseEnv()
	if err != nil {
		log.Fatalln(err)
	}
	cfg, err := config.LoadConfig(*configFileName)
	if err != nil {
		log.Fatalln(err)
	}
	environment.Apply(&cfg)

	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if environment.Threads > 0 && !isFlagSet("threads") {
		*threads = environment.Threads
	}
	*verbose = *verbose || environment.Verbose
	if *dbPath == "" {
		*dbPath = environment.Database
	}

	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			log.Fatalln(err)
		}
		dataFlags.SetOutputPath(cfg.OutputDir)
	}

	var store *storage.Store
	if *dbPath != "" {
		if store, err = storage.Open(*dbPath); err != nil {
			log.Fatalln(err)
		}
		defer store.Close()
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	printer := message.NewPrinter(language.English)
	ctx := context.Background()

	runNames := make([]string, 0, len(cfg.Runs))
	for runName := range cfg.Runs {
		runNames = append(runNames, runName)
	}
	natsort.Sort(runNames)

	var summary utils.CSV
	for _, runName := range runNames {
		fmt.Println("\n" + runName)
		parameters := cfg.Runs[runName]
		parameters.SetVerbosity(*verbose)
		parameters.SetThreads(*threads)
		if err := parameters.CheckAndUnify(runName, &cfg); err != nil {
			fmt.Println(err)
			continue
		}

		s, err := sim.New(runName, parameters, logger)
		if err != nil {
			fmt.Println(err)
			continue
		}
		s.Run()

		dataExtractor := sim.NewDataExtractor(s)
		if err := dataExtractor.Save(dataFlags); err != nil {
			logger.Println(err)
		}
		summary = append(summary, dataExtractor.SummaryRow())

		if store != nil {
			id, err := store.PutRun(ctx, record(s))
			if err != nil {
				logger.Println(err)
			} else if *verbose {
				fmt.Printf("stored as %s\n", id)
			}
		}
		printer.Printf("%s in %s: %d events, %d photons, sigma_e = %.4g cm^2, lambda = %.4g cm\n",
			s.Model.Name(), s.MediumName, s.Tally.Events, s.Tally.Photons, s.CrossSection, s.MeanFreePath)
	}

	if len(summary) > 0 {
		if err := sim.SaveSummary(summary, cfg.OutputUnits, dataFlags); err != nil {
			logger.Println(err)
		}
	}
	fmt.Printf("Elapsed time: %s\n", time.Since(startTime))
}

func isFlagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}

func record(s *sim.Simulation) storage.Record {
	meanDraws, _ := s.Tally.MeanDraws()
	return storage.Record{
		Name:           s.Name,
		Model:          s.Model.Name(),
		Medium:         s.MediumName,
		KineticEnergy:  s.Primary.KineticEnergy,
		Events:         s.Tally.Events,
		Seed:           s.Seed,
		CrossSection:   s.CrossSection,
		MeanFreePath:   s.MeanFreePath,
		MeanDraws:      meanDraws,
		EnergyResidual: s.Tally.MaxEnergyResidual,
	}
}
