package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"phishguard/internal/detection"
	"phishguard/internal/features"
)

var defaultURLs = []string{
	"https://www.google.com",
	"http://suspicious-bank-login.phishing-site.com/secure/update",
}

func main() {
	modelPath := flag.String("model", "", "model artifact; when set, predictions are printed too")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		urls = defaultURLs
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	det := detection.NewPhishingDetector(logger)
	if *modelPath != "" {
		if err := det.LoadModel(*modelPath); err != nil {
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	for _, u := range urls {
		fmt.Printf("\nURL: %s\n", u)
		fmt.Print("Features: ")
		_ = enc.Encode(orderedFeatures(features.Extract(u)))
		if *modelPath != "" {
			fmt.Print("Prediction: ")
			_ = enc.Encode(det.Predict(context.Background(), u))
		}
	}
}

type namedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// orderedFeatures lists f in canonical order so the output is stable.
func orderedFeatures(f features.Features) []namedValue {
	names := features.Names()
	out := make([]namedValue, 0, len(names))
	for _, n := range names {
		out = append(out, namedValue{Name: n, Value: f[n]})
	}
	return out
}
