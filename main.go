package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ebi-ait/ingest-archiver/archiver"
	"github.com/ebi-ait/ingest-archiver/config"
	"github.com/ebi-ait/ingest-archiver/converter"
	"github.com/ebi-ait/ingest-archiver/ingest"
	"github.com/ebi-ait/ingest-archiver/journal"
	"github.com/ebi-ait/ingest-archiver/ontology"
	"github.com/ebi-ait/ingest-archiver/protocols"
	"github.com/ebi-ait/ingest-archiver/services"
)

// command line options
var (
	projectUuid      = flag.String("p", "", "UUID of the project whose bundle manifests are archived")
	manifestListFile = flag.String("f", "", "file listing the IDs of bundle manifests to archive, one per line")
	loadPath         = flag.String("l", "", "REPORT.json of a previous run to load instead of converting")
	outputDir        = flag.String("o", "", "directory in which REPORT.json is written")
	aliasPrefix      = flag.String("a", "", "prefix applied to the aliases of all converted entities")
	excludeTypes     = flag.String("x", "", "comma-separated entity types to exclude, e.g. \"project,study\"")
	serve            = flag.Bool("serve", false, "run the conversion service instead of archiving")
)

// Prints usage info.
func usage() {
	fmt.Fprintf(os.Stderr, "%s: usage:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "%s [options] <config_file>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "See README.md for details on config files.\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// The only argument is the configuration filename.
	if flag.NArg() < 1 {
		usage()
	}
	configFile := flag.Arg(0)

	// Read the configuration file.
	log.Printf("Reading configuration from '%s'...\n", configFile)
	b, err := os.ReadFile(configFile)
	if err != nil {
		log.Panicf("Couldn't read configuration data: %s\n", err.Error())
	}

	// Initialize our configuration and apply command line overrides.
	if err = config.Init(b); err != nil {
		log.Panicf("Couldn't initialize the configuration: %s\n", err.Error())
	}
	if config.Service.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if *aliasPrefix != "" {
		config.Archive.AliasPrefix = *aliasPrefix
	}
	if *outputDir != "" {
		config.Archive.OutputDirectory = *outputDir
	}
	excluded, err := parseEntityTypes(config.Archive.ExcludeTypes, *excludeTypes)
	if err != nil {
		exitError(err.Error())
	}

	conv, err := newConverter()
	if err != nil {
		log.Panicf("Couldn't create the converter: %s\n", err.Error())
	}

	if *serve {
		serveConversions(conv)
		return
	}
	if *projectUuid == "" && *manifestListFile == "" && *loadPath == "" {
		exitError("You must supply one of the following: (1) a project UUID (-p), " +
			"(2) a file with a list of manifest IDs (-f), (3) a report to load (-l)")
	}

	// Interrupting the run cancels any outstanding conversions.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err = archive(ctx, conv, excluded); err != nil {
		exitError(err.Error())
	}
}

// constructs a converter from the configuration
func newConverter() (*converter.Converter, error) {
	resolver, err := ontology.NewClient(config.Ontology.URL, config.Ontology.TimeoutDuration())
	if err != nil {
		return nil, err
	}
	options := []converter.Option{
		converter.WithRelationAttributes(config.Archive.RelationAttributes),
	}
	for _, entityType := range converter.EntityTypes {
		options = append(options, converter.WithAliasPrefix(entityType, config.AliasPrefix(string(entityType))))
	}
	return converter.New(converter.Collaborators{
		Ontology:      resolver,
		ConcreteTypes: ingest.ConcreteTypes{},
		Is10x:         protocols.Is10x,
	}, options...), nil
}

// converts (or loads) an entity map, writes its report, and journals the run
func archive(ctx context.Context, conv *converter.Converter, excluded []converter.EntityType) error {
	if err := journal.Init(); err != nil {
		return err
	}
	defer journal.Finalize()

	record := journal.Record{
		Id:          uuid.New(),
		ProjectUuid: *projectUuid,
		StartTime:   time.Now(),
		Status:      "failed",
	}
	entities, err := buildMap(ctx, conv, excluded)
	if err == nil {
		slog.Info(fmt.Sprintf("Entities converted: %v", entities.Summary()))
		record.NumEntities = entities.Len()
		record.NumErrors = entities.NumErrors()
		record.Report, err = json.MarshalIndent(entities.Report(), "", "    ")
		if err == nil {
			err = saveReport(record.Report)
		}
	}
	switch {
	case err == nil:
		record.Status = "succeeded"
	case ctx.Err() != nil:
		record.Status = "canceled"
	}
	record.StopTime = time.Now()
	if journalErr := journal.RecordRun(record); journalErr != nil {
		slog.Error(fmt.Sprintf("Couldn't record archive run %s: %s", record.Id, journalErr.Error()))
	}
	return err
}

// produces the entity map for the run from the selected source
func buildMap(ctx context.Context, conv *converter.Converter, excluded []converter.EntityType) (*archiver.EntityMap, error) {
	if *projectUuid == "" && *manifestListFile == "" {
		slog.Info(fmt.Sprintf("Loading entity map: %s", *loadPath))
		data, err := os.ReadFile(*loadPath)
		if err != nil {
			return nil, err
		}
		report, err := archiver.ReadReport(data)
		if err != nil {
			return nil, err
		}
		return archiver.MapFromReport(report)
	}

	client, err := ingest.NewClient(config.Ingest.URL, config.Ingest.TimeoutDuration())
	if err != nil {
		return nil, err
	}
	var ids []string
	if *projectUuid != "" {
		slog.Info(fmt.Sprintf("Getting manifests for project: %s", *projectUuid))
		ids, err = client.ManifestIds(ctx, *projectUuid)
	} else {
		slog.Info(fmt.Sprintf("Getting manifests from file: %s", *manifestListFile))
		ids, err = readManifestList(*manifestListFile)
	}
	if err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("Processing %d manifests:\n%s", len(ids), strings.Join(ids, "\n")))

	a := archiver.New(conv, excluded, config.Archive.Concurrency)
	manifests, err := a.Load(ctx, client, ids)
	if err != nil {
		return nil, err
	}
	return a.Convert(ctx, manifests)
}

// reads manifest IDs from a file, one per line, ignoring blank lines
func readManifestList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	ids := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, scanner.Err()
}

// writes REPORT.json to the run's output directory
func saveReport(report []byte) error {
	dir := config.Archive.OutputDirectory
	if *outputDir == "" {
		dir = filepath.Join(dir, "ARCHIVER_"+time.Now().UTC().Format("2006-01-02T150405"))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "REPORT.json")
	if err := os.WriteFile(path, report, 0644); err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("Saved to %s!", path))
	return nil
}

// combines the configured and command line excluded entity types
func parseEntityTypes(configured []string, commaSeparated string) ([]converter.EntityType, error) {
	names := append([]string{}, configured...)
	if commaSeparated != "" {
		for _, name := range strings.Split(commaSeparated, ",") {
			names = append(names, strings.TrimSpace(name))
		}
	}
	entityTypes := make([]converter.EntityType, 0, len(names))
	for _, name := range names {
		entityType, err := converter.ParseEntityType(name)
		if err != nil {
			return nil, err
		}
		entityTypes = append(entityTypes, entityType)
	}
	if len(entityTypes) > 0 {
		slog.Warn(fmt.Sprintf("Excluding %v", entityTypes))
	}
	return entityTypes, nil
}

// runs the conversion service until interrupted
func serveConversions(conv *converter.Converter) {
	service, err := services.NewConversionService(conv)
	if err != nil {
		log.Panicf("Couldn't create the service: %s\n", err.Error())
	}

	// Start the service in a goroutine so it doesn't block.
	go func() {
		err = service.Start(config.Service.Port)
		if err != nil {
			log.Println(err.Error())
		}
	}()

	// Intercept the SIGINT, SIGHUP, SIGTERM, and SIGQUIT signals, shutting down
	// the service as gracefully as possible if they are encountered.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	// Block till we receive one of the above signals.
	<-sigChan

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Wait for connections to close until the deadline elapses.
	service.Shutdown(ctx)
	log.Println("Shutting down")
}

// logs an error and exits with a nonzero status
func exitError(message string) {
	slog.Error(message)
	os.Exit(2)
}
