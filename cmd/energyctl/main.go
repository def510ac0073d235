package main

import (
	"context"
	"energydash/internal/db"
	"energydash/internal/engine"
	"energydash/internal/export"
	"energydash/internal/models"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string
	root := &cobra.Command{
		Use:          "energyctl",
		Short:        "Load and export the Australian Energy Statistics workbooks",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", envOr("DATA_DIR", "./data"), "directory holding Tables L, O and Q")

	var dsn string
	ingest := &cobra.Command{
		Use:   "ingest",
		Short: "Write the workbooks into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--db or DB is required")
			}
			store, err := engine.LoadWorkbooks(dir)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			pg, err := db.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer pg.Close()
			log.Println("Connected!")
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
			if err := pg.Ingest(ctx, store.Observations()); err != nil {
				return err
			}
			log.Printf("Ingested %d observations", store.Len())
			return nil
		},
	}
	ingest.Flags().StringVar(&dsn, "db", os.Getenv("DB"), "PostgreSQL connection string")

	var out string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write records as JSON, in the /api/get_data shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := engine.LoadWorkbooks(dir)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(store.Records(), "", "  ")
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(b, '\n'))
				return err
			}
			return os.WriteFile(out, b, 0o644)
		},
	}
	exportCmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")

	var metric, region, png string
	var year int
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a bar chart PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := engine.LoadWorkbooks(dir)
			if err != nil {
				return err
			}
			var ds models.Dataset
			var title string
			if year != 0 {
				ds, err = store.YearSeries(metric, year)
				title = fmt.Sprintf("%s by region, %d", metric, year)
			} else {
				ds, err = store.RegionSeries(metric, region)
				title = fmt.Sprintf("%s, %s", metric, region)
			}
			if err != nil {
				return err
			}
			f, err := os.Create(png)
			if err != nil {
				return err
			}
			defer f.Close()
			return export.WritePNG(f, title, ds)
		},
	}
	chartCmd.Flags().StringVar(&metric, "metric", engine.MetricElectricityUsage, "metric column")
	chartCmd.Flags().StringVar(&region, "region", "Australia", "region name or abbreviation")
	chartCmd.Flags().IntVar(&year, "year", 0, "financial (end) year; charts every state instead of one region")
	chartCmd.Flags().StringVarP(&png, "out", "o", "chart.png", "output PNG")

	root.AddCommand(ingest, exportCmd, chartCmd)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
