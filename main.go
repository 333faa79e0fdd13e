package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/rm-hull/nl-fuel-prices/cmd"
)

func main() {
	var configFile string
	var port int
	var debug bool
	var opts cmd.SearchOptions

	rootCmd := &cobra.Command{
		Use:  "nl-fuel-prices",
		Long: `Tracks and ranks Dutch fuel station prices, and reports when they change.`,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the YAML config file, see config.example.yaml (defaults to $CONFIG_FILE, else built-in defaults)")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--config <path>] [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(configFile, port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	searchCmd := &cobra.Command{
		Use:   "search (--postcode <postcode> | --lat <lat> --lon <lon>) [--radius <km>] [--fuel <type>]",
		Short: "Search once for the cheapest stations near a point and print the result",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Search(configFile, opts)
		},
	}
	searchCmd.Flags().StringVar(&opts.Postcode, "postcode", "", "Dutch postcode to search around, e.g. 3511 AA")
	searchCmd.Flags().Float64Var(&opts.Latitude, "lat", 0, "Latitude to search around")
	searchCmd.Flags().Float64Var(&opts.Longitude, "lon", 0, "Longitude to search around")
	searchCmd.Flags().Float64Var(&opts.RadiusKm, "radius", 10, "Search radius in kilometres")
	searchCmd.Flags().StringVar(&opts.FuelType, "fuel", "euro95", "Fuel type: euro95, euro98, diesel, lpg or adblue")
	searchCmd.MarkFlagsRequiredTogether("lat", "lon")
	searchCmd.MarkFlagsOneRequired("postcode", "lat")
	searchCmd.MarkFlagsMutuallyExclusive("postcode", "lat")

	rootCmd.AddCommand(apiServerCmd, searchCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
