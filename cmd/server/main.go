package main

import (
	"bojrates/internal/app"

	"github.com/sirupsen/logrus"
)

// @title BOJ Rates API
// @version 1.0
// @description Bank of Jamaica counter exchange rates: ingestion, triangulation and conversion.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.Fatal(err)
	}
}
