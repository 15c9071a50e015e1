package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/MingLLuo/LWE-PKE/internal/trial"
	"github.com/MingLLuo/LWE-PKE/pkg"
	"github.com/kr/pretty"
)

func main() {
	paramsName := flag.String("params", "", "parameter set name (default: the registry default)")
	trials := flag.Int("trials", 1000, "number of encrypt/decrypt trials")
	keyPairs := flag.Int("keys", 1, "number of key pairs the trials are spread over")
	seed := flag.String("seed", "", "hex seed for a reproducible run (default: crypto/rand)")
	list := flag.Bool("list", false, "print the registered parameter sets and exit")
	flag.Parse()

	if *list {
		for _, name := range pkg.ListParameterSets() {
			params, err := pkg.GetParameterSet(name)
			if err != nil {
				log.Fatalf("parameter set %s: %v", name, err)
			}
			fmt.Printf("%s (always correct: %v)\n", name, params.AlwaysCorrect())
			pretty.Println(params.LatticeParams)
			pretty.Println(params.NoiseParams)
		}
		return
	}

	params := pkg.GetDefaultParameterSet()
	if *paramsName != "" {
		var err error
		if params, err = pkg.GetParameterSet(*paramsName); err != nil {
			log.Fatalf("%v", err)
		}
	}

	sc, err := pkg.NewScheme(params)
	if err != nil {
		log.Fatalf("invalid parameter set %s: %v", params.Name, err)
	}

	src, err := trial.OpenSource(*seed, "lwepke/trials")
	if err != nil {
		log.Fatalf("randomness source: %v", err)
	}

	start := time.Now()
	report, err := trial.Run(sc, src, trial.Config{KeyPairs: *keyPairs, Trials: *trials})
	if err != nil {
		log.Fatalf("campaign failed: %v", err)
	}
	elapsed := time.Since(start)

	summary, err := trial.Summarize(report.DecryptionNoise)
	if err != nil {
		log.Printf("warn: noise statistics: %v", err)
	}

	fmt.Printf("parameter set: %s (n=%d, m=%d, q=%v, %s noise, bound %d)\n",
		params.Name, params.LatticeParams.N, params.LatticeParams.M, params.LatticeParams.Q,
		params.NoiseParams.Distribution, params.NoiseParams.Bound)
	fmt.Printf("trials:        %d over %d key pair(s) in %v\n", report.Trials, *keyPairs, elapsed.Round(time.Millisecond))
	fmt.Printf("failures:      %d (rate %.6f)\n", report.Failures, report.FailureRate())
	fmt.Printf("noise <e, r>:  mean %.3f, stddev %.3f, p99 |.| %.0f, max |.| %.0f, threshold q/4 = %v\n",
		summary.Mean, summary.StdDev, summary.P99, summary.MaxAbs, new(big.Int).Rsh(params.HalfQ(), 1))

	if report.Failures > 0 {
		os.Exit(1)
	}
}
