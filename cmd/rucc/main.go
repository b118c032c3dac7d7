package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ruc-toolchain/rucc/api"
	"github.com/ruc-toolchain/rucc/config"
	"github.com/ruc-toolchain/rucc/preprocess"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		preEOnly    = flag.Bool("E", false, "Preprocess only: print the macro-expanded output")
		outPath     = flag.String("o", "", "Write output to this path instead of stdout")
		configPath  = flag.String("config", "", "Configuration file path (default: platform config directory)")
		defines     defineList
	)
	flag.Var(&defines, "D", "Define an object-like macro NAME=BODY (repeatable)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("rucc %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if _, err := loadConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	if !*preEOnly {
		fmt.Fprintln(os.Stderr, "rucc currently only runs the preprocessor from the command line (-E); pass -E or -api-server")
		os.Exit(1)
	}

	runPreprocess(flag.Arg(0), defines.toMap(), *outPath)
}

// runPreprocess expands sourceFile's macros and directives, writing the
// result to outPath (stdout when empty). Any accumulated diagnostics
// are printed to stderr regardless.
func runPreprocess(sourceFile string, defines map[string]string, outPath string) {
	out, errs, err := preprocess.ProcessFile(sourceFile, preprocess.Options{Defines: defines})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if errs != nil && len(errs.Errors) > 0 {
		fmt.Fprint(os.Stderr, errs.Error())
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil { // #nosec G306 -- user-specified output path
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Print(out)
	}

	if errs != nil && errs.HasErrors() {
		os.Exit(1)
	}
}

// runAPIServer starts the HTTP/WebSocket front end and blocks until it
// receives an interrupt or termination signal.
func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// defineList implements flag.Value to accept repeated -D NAME=BODY
// flags, the command-line equivalent of preprocess.Options.Defines.
type defineList []string

func (d *defineList) String() string {
	return fmt.Sprint([]string(*d))
}

func (d *defineList) Set(value string) error {
	*d = append(*d, value)
	return nil
}

func (d *defineList) toMap() map[string]string {
	out := make(map[string]string, len(*d))
	for _, entry := range *d {
		name, body := entry, ""
		for i := 0; i < len(entry); i++ {
			if entry[i] == '=' {
				name, body = entry[:i], entry[i+1:]
				break
			}
		}
		out[name] = body
	}
	return out
}

func printHelp() {
	fmt.Printf(`rucc %s

Usage: rucc -E [-D NAME=BODY]... [-o OUTPUT] <source-file>
       rucc -api-server [-port N]

Options:
  -help          Show this help message
  -version       Show version information
  -E             Preprocess only: print the macro-expanded output
  -D NAME=BODY   Define an object-like macro before processing (repeatable)
  -o FILE        Write output to this path instead of stdout
  -config FILE   Configuration file path (default: platform config directory)
  -api-server    Start HTTP API server mode (no source file required)
  -port N        API server port (default: 8080, used with -api-server)
`, Version)
}
