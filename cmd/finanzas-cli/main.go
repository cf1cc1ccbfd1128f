package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"log/slog"

	"github.com/Leobor91/Finanzas-Personales/internal/cli"
	"github.com/Leobor91/Finanzas-Personales/internal/core"
	"github.com/Leobor91/Finanzas-Personales/internal/services"
	"github.com/Leobor91/Finanzas-Personales/internal/storage"
)

const usage = `Usage: finanzas-cli <command> [flags]

Commands:
  add       record a movement
  list      list movements with optional filters
  report    run a report (balance, categories)

Run 'finanzas-cli <command> -h' for command flags.`

func main() {
	// Keep the terminal clean; only warnings and errors reach stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(slog.Default())

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open database: %v\n", err)
		os.Exit(2)
	}
	defer repo.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "add":
		err = runAdd(ctx, repo, os.Args[2:])
	case "list":
		err = runList(ctx, repo, os.Args[2:])
	case "report":
		err = runReport(ctx, repo, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if isValidationError(err) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDateFormat,
		core.ErrInvalidType,
		core.ErrEmptyCategory,
		core.ErrInvalidFXRate,
		services.ErrInvalidRange,
		services.ErrInvalidMonth,
		services.ErrInvalidYear,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func runAdd(ctx context.Context, repo *storage.SQLiteRepository, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	date := fs.String("date", "", "movement date (YYYY-MM-DD)")
	typ := fs.String("type", "", "movement type (Ingreso or Gasto)")
	amount := fs.String("amount", "", "amount, dot or comma decimals")
	category := fs.String("category", "", "category label")
	description := fs.String("description", "", "free-form note")
	currency := fs.String("currency", "", "currency code (default COP)")
	fxRate := fs.Float64("fx-rate", 0, "exchange rate against the base currency")
	fs.Parse(args)

	parsed, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}

	svc := services.NewMovementService(repo, nil)
	id, err := svc.CreateMovement(ctx, services.CreateMovementInput{
		Date:        *date,
		Type:        *typ,
		Amount:      parsed,
		Category:    *category,
		Description: *description,
		Currency:    *currency,
		FXRate:      *fxRate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("recorded movement %d\n", id)
	return nil
}

func runList(ctx context.Context, repo *storage.SQLiteRepository, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dateFrom := fs.String("from", "", "start date inclusive (YYYY-MM-DD)")
	dateTo := fs.String("to", "", "end date inclusive (YYYY-MM-DD)")
	date := fs.String("date", "", "exact date shorthand (YYYY-MM-DD)")
	category := fs.String("category", "", "category substring filter")
	fs.Parse(args)

	from, to := *dateFrom, *dateTo
	if *date != "" {
		from, to = *date, *date
	}

	movements, err := services.NewQueryService(repo).Find(ctx, from, to, *category)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tCURRENCY\tCATEGORY\tDESCRIPTION")
	for _, m := range movements {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			m.ID, m.Date, m.Type, m.Amount, m.Currency, m.Category, m.Description)
	}
	return w.Flush()
}

func runReport(ctx context.Context, repo *storage.SQLiteRepository, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("report requires a subcommand: balance or categories")
	}

	svc := services.NewReportService(repo)

	switch args[0] {
	case "balance":
		fs := flag.NewFlagSet("report balance", flag.ExitOnError)
		month := fs.String("month", "", "month (1-12)")
		year := fs.String("year", "", "year (YYYY)")
		fs.Parse(args[1:])

		bal, err := svc.MonthlyWithCarryover(ctx, *month, *year)
		if err != nil {
			return err
		}
		fmt.Printf("Balance %s/%s\n", bal.Month, bal.Year)
		fmt.Printf("  ingresos:       %10.2f\n", bal.Income)
		fmt.Printf("  gastos:         %10.2f\n", bal.Expenses)
		fmt.Printf("  neto:           %10.2f\n", bal.Net)
		fmt.Printf("  previous net:   %10.2f\n", bal.PreviousNet)
		fmt.Printf("  cumulative net: %10.2f\n", bal.CumulativeNet)
		return nil

	case "categories":
		fs := flag.NewFlagSet("report categories", flag.ExitOnError)
		month := fs.String("month", "", "optional month (1-12), needs -year")
		year := fs.String("year", "", "optional year (YYYY)")
		fs.Parse(args[1:])

		totals, err := svc.ExpensesByCategory(ctx, *year, *month)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tTOTAL")
		for _, row := range totals {
			fmt.Fprintf(w, "%s\t%.2f\n", row.Category, row.Total)
		}
		return w.Flush()

	default:
		return fmt.Errorf("unknown report %q, use balance or categories", args[0])
	}
}
