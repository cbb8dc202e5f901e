// custom-costs fetches SaaS usage data, prices it and uploads FOCUS cost
// records to Datadog Cloud Cost Management.
package main

import (
	"fmt"
	"os"

	"github.com/CruGlobal/datadog-custom-costs/cmd/cli/cmd"
	"github.com/CruGlobal/datadog-custom-costs/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
