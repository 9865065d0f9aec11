package commands

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRouteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Wait for the graph and find a route between two coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := routeQuery(cmd)
			if err != nil {
				return err
			}

			itinerary, err := c.app.Route(cmd.Context(), query, options(cmd))
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(itinerary)
			}

			writeItinerary(cmd.OutOrStdout(), itinerary)
			return nil
		},
	}
	cmd.Flags().String("from", "", "Origin as lat,lon")
	cmd.Flags().String("to", "", "Destination as lat,lon")
	cmd.Flags().String("at", "", "Departure time in RFC 3339 format (default now)")
	cmd.Flags().String("mode", string(domain.ModeTransit), "Travel mode: walk or transit")
	cmd.Flags().String("profile", "", "Override the routing profile")
	cmd.Flags().Bool("json", false, "Print the itinerary as JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func routeQuery(cmd *cobra.Command) (domain.RouteQuery, error) {
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	atFlag, _ := cmd.Flags().GetString("at")
	modeFlag, _ := cmd.Flags().GetString("mode")
	profile, _ := cmd.Flags().GetString("profile")

	from, err := domain.ParseCoordinate(fromFlag)
	if err != nil {
		return domain.RouteQuery{}, err
	}
	to, err := domain.ParseCoordinate(toFlag)
	if err != nil {
		return domain.RouteQuery{}, err
	}
	mode, err := domain.ParseTravelMode(modeFlag)
	if err != nil {
		return domain.RouteQuery{}, err
	}

	departure := time.Now()
	if atFlag != "" {
		departure, err = time.Parse(time.RFC3339, atFlag)
		if err != nil {
			return domain.RouteQuery{}, zerr.With(zerr.Wrap(err, "invalid departure time"), "at", atFlag)
		}
	}

	return domain.RouteQuery{
		From:      from,
		To:        to,
		Departure: departure,
		Mode:      mode,
		Profile:   profile,
	}, nil
}
