package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/example/sitebook/internal/booking"
	"github.com/example/sitebook/internal/config"
	"github.com/example/sitebook/internal/db"
	"github.com/example/sitebook/internal/migrate"
	"github.com/example/sitebook/internal/sites"
	"github.com/spf13/cobra"
)

func newSiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage construction sites (non-UI)",
	}
	cmd.AddCommand(newSiteCreateCmd())
	cmd.AddCommand(newSiteListCmd())
	return cmd
}

func openRepo(ctx context.Context) (*db.DB, *sites.Repo, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	d, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrate.Up(ctx, d); err != nil {
		d.Close()
		return nil, nil, err
	}
	return d, sites.NewRepo(d), nil
}

func newSiteCreateCmd() *cobra.Command {
	var (
		name        string
		purpose     string
		lat, lng    float64
		startDay    string
		halfDays    int
		startPeriod string
		clientPhone string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, repo, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			day, err := time.ParseInLocation("2006-01-02", startDay, time.UTC)
			if err != nil {
				return fmt.Errorf("invalid --start-day (want YYYY-MM-DD)")
			}
			period, err := booking.ParsePeriod(startPeriod)
			if err != nil {
				return err
			}

			s, err := repo.CreateSite(ctx, sites.Site{
				Name:        name,
				Purpose:     purpose,
				Coordinates: sites.Coordinates{Lat: lat, Lng: lng},
				StartDay:    day,
				Duration:    sites.Duration{HalfDays: halfDays, StartPeriod: period},
				ClientPhone: clientPhone,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created site id=%s name=%q\n", s.ID, s.Name)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "site name")
	c.Flags().StringVar(&purpose, "purpose", "", "what the site is for")
	c.Flags().Float64Var(&lat, "lat", 0, "latitude")
	c.Flags().Float64Var(&lng, "lng", 0, "longitude")
	c.Flags().StringVar(&startDay, "start-day", "", "first day YYYY-MM-DD")
	c.Flags().IntVar(&halfDays, "half-days", 1, "how many half-days the site lasts")
	c.Flags().StringVar(&startPeriod, "start-period", "morning", "morning or afternoon")
	c.Flags().StringVar(&clientPhone, "client-phone", "", "client phone number")

	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("start-day")
	return c
}

func newSiteListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, repo, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer d.Close()

			list, err := repo.ListSites(ctx)
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(os.Stdout, "id=%s name=%q status=%s start=%s half_days=%d start_period=%s\n",
					s.ID, s.Name, s.Status, s.StartDay.Format("2006-01-02"), s.Duration.HalfDays, s.Duration.StartPeriod)
			}
			return nil
		},
	}
	return c
}
