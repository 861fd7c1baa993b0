// Command zipcodes converts a GeoNames postal code export into the ZIP code
// dataset used by the local geocoder:
//
//	curl -sO https://download.geonames.org/export/zip/US.zip && unzip US.zip US.txt
//	go run ./cmd/zipcodes -in US.txt -out data/zipcodes.json
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/address-weather/internal/weather/providers"
)

func main() {
	var in, out string
	flag.StringVar(&in, "in", "US.txt", "GeoNames postal code export (tab separated)")
	flag.StringVar(&out, "out", "data/zipcodes.json", "ZIP code dataset to write")
	flag.Parse()

	src, err := os.Open(in)
	if err != nil {
		logrus.Fatalf("failed to open export: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		logrus.Fatalf("failed to create dataset: %v", err)
	}

	n, err := providers.ConvertGeoNames(src, dst)
	if err != nil {
		dst.Close()
		logrus.Fatalf("failed to convert export: %v", err)
	}
	if err := dst.Close(); err != nil {
		logrus.Fatalf("failed to write dataset: %v", err)
	}

	logrus.WithFields(logrus.Fields{"zip_codes": n, "out": out}).Info("zip code dataset written")
}
