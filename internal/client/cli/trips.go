package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/httpapi"
)

func newTripsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "trips", Short: "List and create trips"}
	cmd.AddCommand(&cobra.Command{Use: "list", Short: "List your trips", Args: cobra.NoArgs, RunE: a.listTrips})
	cmd.AddCommand(newCreateTripCmd(a))
	return cmd
}

func (a *app) listTrips(cmd *cobra.Command, _ []string) error {
	list, err := a.client().ListTrips(cmd.Context())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trips.")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESTINATION\tDATES\tACCESS")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.TripId, t.Name, dash(t.Destination), dateRange(t.StartDate, t.EndDate), t.Access)
	}
	return tw.Flush()
}

func newCreateTripCmd(a *app) *cobra.Command {
	var (
		req        httpapi.CreateTripRequest
		desc       string
		start, end string
		lat, lng   float64
		key        string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if f.Changed("description") {
				req.Description = &desc
			}
			if f.Changed("lat") != f.Changed("lng") {
				return errors.New("--lat and --lng must be given together")
			}
			if f.Changed("lat") {
				req.Latitude, req.Longitude = &lat, &lng
			}
			var err error
			if req.StartDate, err = parseDate("start", start); err != nil {
				return err
			}
			if req.EndDate, err = parseDate("end", end); err != nil {
				return err
			}
			if key == "" {
				key = uuid.NewString()
			}

			t, err := a.client().CreateTrip(cmd.Context(), req, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created trip %s (%s)\n", t.TripId, t.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "trip name")
	f.StringVar(&req.Destination, "destination", "", "destination")
	f.StringVar(&desc, "description", "", "description")
	f.StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	f.Float64Var(&lat, "lat", 0, "latitude")
	f.Float64Var(&lng, "lng", 0, "longitude")
	f.StringVar(&key, "idempotency-key", "", "retry key (random when empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

const dateLayout = "2006-01-02"

func parseDate(flag, s string) (*openapi_types.Date, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, errors.Errorf("--%s must be YYYY-MM-DD", flag)
	}
	return &openapi_types.Date{Time: t}, nil
}

func dateRange(start, end *openapi_types.Date) string {
	switch {
	case start == nil && end == nil:
		return "-"
	case end == nil:
		return start.Format(dateLayout) + " ->"
	case start == nil:
		return "-> " + end.Format(dateLayout)
	default:
		return start.Format(dateLayout) + " -> " + end.Format(dateLayout)
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
