package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/MingLLuo/LWE-PKE/internal/trial"
	"github.com/MingLLuo/LWE-PKE/pkg"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

// binWidth aims for about 60 bins between -max and max
func binWidth(s trial.Summary) float64 {
	return math.Max(1, math.Ceil(2*s.MaxAbs/60))
}

func newHistogramChart(title string, values []float64, s trial.Summary) *charts.Bar {
	centers, counts := trial.Histogram(values, binWidth(s))
	xLabels := make([]string, len(centers))
	for i, c := range centers {
		xLabels[i] = fmt.Sprintf("%.0f", c)
	}

	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f, median=%.1f, p99|.|=%.0f, max|.|=%.0f",
		s.Count, s.Mean, s.StdDev, s.Median, s.P99, s.MaxAbs)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func main() {
	paramsName := flag.String("params", "", "parameter set name (default: the registry default)")
	samples := flag.Int("samples", 5000, "number of ciphertexts to measure")
	keyPairs := flag.Int("keys", 4, "number of key pairs the samples are spread over")
	seed := flag.String("seed", "", "hex seed for a reproducible run (default: crypto/rand)")
	outDir := flag.String("out", ".", "output directory for the HTML page")
	flag.Parse()

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

	src, err := trial.OpenSource(*seed, "lwepke/noiseplot")
	if err != nil {
		log.Fatalf("randomness source: %v", err)
	}

	report, err := trial.Run(sc, src, trial.Config{KeyPairs: *keyPairs, Trials: *samples})
	if err != nil {
		log.Fatalf("sampling failed: %v", err)
	}

	page := components.NewPage()
	add := func(name string, vals []float64) {
		if len(vals) == 0 {
			return
		}
		s, err := trial.Summarize(vals)
		if err != nil {
			log.Printf("warn: stats for %s: %v", name, err)
			return
		}
		fmt.Printf("%-28s n=%d mean=%.3f std=%.3f max|.|=%.0f\n", name, s.Count, s.Mean, s.StdDev, s.MaxAbs)
		page.AddCharts(newHistogramChart(name, vals, s))
	}
	add("e (public key error)", report.KeyNoise)
	add("<e, r> (decryption noise)", report.DecryptionNoise)
	fmt.Printf("decryption failures: %d/%d\n", report.Failures, report.Trials)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}
	ts := time.Now().Format("20060102_150405")
	htmlPath := filepath.Join(*outDir, fmt.Sprintf("noise_%s_%s.html", params.Name, ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
}
