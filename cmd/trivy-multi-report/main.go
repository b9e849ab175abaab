package main

import (
	"os"

	"github.com/aquasecurity/trivy-multi-report/pkg"
	"github.com/aquasecurity/trivy-multi-report/pkg/log"
)

var (
	version = "0.0.1"
)

func main() {
	app := pkg.NewApp(version)
	if err := app.Run(os.Args); err != nil {
		log.Error("Failed to generate report", log.Err(err))
		os.Exit(1)
	}
}
