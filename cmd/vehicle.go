package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/sitebook/internal/booking"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newVehicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Manage site vehicles and their reservations (non-UI)",
	}
	cmd.AddCommand(newVehicleAddCmd())
	cmd.AddCommand(newVehicleReserveCmd())
	cmd.AddCommand(newVehicleReservationsCmd())
	return cmd
}

func newVehicleAddCmd() *cobra.Command {
	var siteID, name string

	c := &cobra.Command{
		Use:   "add",
		Short: "Attach a vehicle to a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, repo, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			sid, err := uuid.Parse(siteID)
			if err != nil {
				return fmt.Errorf("invalid --site-id: %w", err)
			}
			if _, err := repo.GetSite(ctx, sid); err != nil {
				return err
			}
			v, err := repo.AddVehicle(ctx, sid, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "added vehicle id=%s name=%q site=%s\n", v.ID, v.Name, v.SiteID)
			return nil
		},
	}

	c.Flags().StringVar(&siteID, "site-id", "", "site id")
	c.Flags().StringVar(&name, "name", "", "vehicle name")
	_ = c.MarkFlagRequired("site-id")
	_ = c.MarkFlagRequired("name")
	return c
}

func newVehicleReserveCmd() *cobra.Command {
	var (
		vehicleID   string
		startDate   string
		endDate     string
		startPeriod string
		endPeriod   string
	)

	c := &cobra.Command{
		Use:   "reserve",
		Short: "Reserve a vehicle for a half-day span",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, repo, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			vid, err := uuid.Parse(vehicleID)
			if err != nil {
				return fmt.Errorf("invalid --vehicle-id: %w", err)
			}
			sp, err := booking.ParsePeriod(startPeriod)
			if err != nil {
				return err
			}
			ep, err := booking.ParsePeriod(endPeriod)
			if err != nil {
				return err
			}
			candidate, err := booking.NewIntervalWithPeriods(sp, startDate, ep, endDate)
			if err != nil {
				return err
			}
			if err := repo.ReserveVehicle(ctx, vid, candidate); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "reserved %s\n", candidate)
			return nil
		},
	}

	c.Flags().StringVar(&vehicleID, "vehicle-id", "", "vehicle id")
	c.Flags().StringVar(&startDate, "start-date", "", "start date YYYY-MM-DD")
	c.Flags().StringVar(&endDate, "end-date", "", "end date YYYY-MM-DD")
	c.Flags().StringVar(&startPeriod, "start-period", "morning", "morning or afternoon")
	c.Flags().StringVar(&endPeriod, "end-period", "afternoon", "morning or afternoon")

	_ = c.MarkFlagRequired("vehicle-id")
	_ = c.MarkFlagRequired("start-date")
	_ = c.MarkFlagRequired("end-date")
	return c
}

func newVehicleReservationsCmd() *cobra.Command {
	var vehicleID string

	c := &cobra.Command{
		Use:   "reservations",
		Short: "List a vehicle's reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, repo, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			vid, err := uuid.Parse(vehicleID)
			if err != nil {
				return fmt.Errorf("invalid --vehicle-id: %w", err)
			}
			if _, err := repo.GetVehicle(ctx, vid); err != nil {
				return err
			}
			list, err := repo.Reservations(ctx, vid)
			if err != nil {
				return err
			}
			for _, iv := range list {
				fmt.Fprintln(os.Stdout, iv)
			}
			return nil
		},
	}

	c.Flags().StringVar(&vehicleID, "vehicle-id", "", "vehicle id")
	_ = c.MarkFlagRequired("vehicle-id")
	return c
}
