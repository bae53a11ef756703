package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/lukaszgryglicki/shutterscene/internal/shutterscene"
)

func envInt(name string) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return 0
	}
	return v
}

func main() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	shutterscene.Debug = os.Getenv("DEBUG") != ""
	shutterscene.GIF = os.Getenv("GIF") != ""
	shutterscene.RAW = os.Getenv("RAW") != ""
	shutterscene.SppEnv = envInt("SPP")
	shutterscene.Workers = envInt("WORKERS")
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	opts, err := shutterscene.ParseOptions(os.Args[0], os.Args[1:])
	if err == nil {
		_, err = shutterscene.Run(opts)
	}
	if err != nil {
		code := exitCode(err)
		if code != 0 {
			fmt.Printf("Error: %v\n", err)
		}
		if profile {
			pprof.StopCPUProfile()
		}
		os.Exit(code)
	}
}

// exitCode maps a run error to the process status; -h/--help is not a failure.
func exitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 1
}
