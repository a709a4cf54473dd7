package main

import (
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/tilfirn/firn/internal/extractors"
	"github.com/tilfirn/firn/internal/metrics"
	"github.com/tilfirn/firn/pkg/extractor"
	"github.com/tilfirn/firn/pkg/handle"
	"github.com/tilfirn/firn/pkg/pipeline"
	"github.com/tilfirn/firn/pkg/query"
	"github.com/tilfirn/firn/pkg/querylang"
	"github.com/tilfirn/firn/pkg/server"
	"github.com/tilfirn/firn/pkg/triplestore"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: firn <command> [args]")
		fmt.Println("Commands:")
		fmt.Println("  index <blob-dir>      - Run the extractor pipeline over a blob directory")
		fmt.Println("  query <pattern-file>  - Run a pattern-query program against a freshly indexed directory")
		fmt.Println("  serve [addr]          - Start the HTTP query endpoint (default: localhost:8080)")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "index":
		if len(os.Args) < 3 {
			fmt.Println("Usage: firn index <blob-dir>")
			os.Exit(1)
		}
		runIndex(os.Args[2])
	case "query":
		if len(os.Args) < 3 {
			fmt.Println("Usage: firn query <pattern-file>")
			os.Exit(1)
		}
		runQuery(os.Args[2])
	case "serve":
		addr := "localhost:8080"
		if len(os.Args) >= 3 {
			addr = os.Args[2]
		}
		runServe(addr)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

// buildPipeline wires a Handle over root to the standard extractor chain
// and returns a ready-to-run Driver. Every command that needs an indexed
// database goes through this.
func buildPipeline(root string) (*handle.Handle, *pipeline.Driver, error) {
	db, writeLog := triplestore.NewDatabase()

	h, err := handle.New(db, root)
	if err != nil {
		return nil, nil, fmt.Errorf("firn: open handle: %w", err)
	}

	gazetteer, err := extractors.LoadGazetteer("", "")
	if err != nil {
		return nil, nil, fmt.Errorf("firn: load gazetteer: %w", err)
	}

	mimeSniffer, err := extractors.NewMimeSniffer()
	if err != nil {
		return nil, nil, fmt.Errorf("firn: new mime sniffer: %w", err)
	}

	reg := prometheus.NewRegistry()

	chain := []extractor.Extractor{
		&extractors.BlobLoader{Root: root},
		&extractors.Watcher{Root: root, SettleTimeout: extractors.DefaultSettleTimeout},
		mimeSniffer,
		&extractors.ExifExtractor{},
		gazetteer,
		&extractors.Logger{Log: logrus.StandardLogger()},
	}

	drv := pipeline.New(h, writeLog, chain,
		pipeline.WithLogger(logrus.StandardLogger()),
		pipeline.WithMetrics(metrics.NewPipeline(reg)),
	)

	return h, drv, nil
}

func runIndex(root string) {
	_, drv, err := buildPipeline(root)
	if err != nil {
		log.Fatalf("firn: %v", err)
	}

	fmt.Printf("Indexing %s\n", root)
	if err := drv.Run(); err != nil {
		log.Fatalf("firn: pipeline run: %v", err)
	}
	fmt.Println("Indexing complete")
}

func runQuery(patternFile string) {
	root, _ := os.Getwd()

	program, err := os.ReadFile(patternFile)
	if err != nil {
		log.Fatalf("firn: read pattern file: %v", err)
	}

	h, drv, err := buildPipeline(root)
	if err != nil {
		log.Fatalf("firn: %v", err)
	}

	if err := drv.Run(); err != nil {
		log.Fatalf("firn: pipeline run: %v", err)
	}

	rules, err := querylang.Parse(string(program))
	if err != nil {
		log.Fatalf("firn: parse query: %v", err)
	}

	solutions, err := query.Query(h.DB(), rules)
	if err != nil {
		log.Fatalf("firn: query: %v", err)
	}

	fmt.Printf("Found %d solution(s)\n", len(solutions))
	for _, sol := range solutions {
		for name, val := range sol.Bindings() {
			fmt.Printf("  %s = %s\n", name, val)
		}
		fmt.Println()
	}
}

func runServe(addr string) {
	root, _ := os.Getwd()

	h, drv, err := buildPipeline(root)
	if err != nil {
		log.Fatalf("firn: %v", err)
	}
	if err := drv.Run(); err != nil {
		log.Fatalf("firn: pipeline run: %v", err)
	}

	srv := server.NewServer(h.DB(), addr)
	log.Fatal(srv.Start())
}
