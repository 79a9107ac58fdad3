// Command ledgerctl prints a customer ledger from the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/milkbook/milkbook/internal/app"
	"github.com/milkbook/milkbook/internal/ledger"
	"github.com/milkbook/milkbook/internal/shared"
	"github.com/milkbook/milkbook/report"
)

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ledgerctl:", err)
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, stderr io.Writer) error {
	fs := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	customerID := fs.String("customer", "", "customer id")
	startRaw := fs.String("start", "", "first day, yyyy-MM-dd")
	endRaw := fs.String("end", "", "last day, yyyy-MM-dd (default today)")
	format := fs.String("format", "text", "text, csv, xlsx or pdf")
	strict := fs.Bool("strict", false, "fail when a product rate is unavailable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *customerID == "" || *startRaw == "" {
		fs.Usage()
		return flag.ErrHelp
	}
	start, err := shared.ParseDate(*startRaw)
	if err != nil {
		return err
	}
	end := shared.Today()
	if *endRaw != "" {
		if end, err = shared.ParseDate(*endRaw); err != nil {
			return err
		}
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLoggerTo(cfg, stderr)

	st, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := ledger.NewService(st, logger, ledger.Options{StrictRates: *strict || cfg.LedgerStrictRates})
	r, err := svc.GenerateReport(*customerID, start, end)
	if err != nil {
		return err
	}
	doc := report.NewDocument(r, svc.ProductNames())

	if *format == "text" {
		return writeText(out, doc)
	}
	f, err := report.ParseFormat(*format)
	if err != nil {
		return err
	}
	return report.Write(out, f, doc)
}

func writeText(out io.Writer, doc report.Document) error {
	r := doc.Report
	fmt.Fprintf(out, "%s (%s)  %s to %s\n", r.CustomerName, r.CustomerID, r.StartDate, r.EndDate)
	fmt.Fprintf(out, "Opening balance: %s\n\n", r.OpeningBalance.StringFixed(ledger.MoneyPlaces))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tQty\tBilled\tReceived\tBalance\t")
	for _, e := range r.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			e.Date,
			e.TotalQuantity.String(),
			e.AmountBilled.StringFixed(ledger.MoneyPlaces),
			e.PaymentReceived.StringFixed(ledger.MoneyPlaces),
			e.ClosingBalance.StringFixed(ledger.MoneyPlaces))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nBilled %s, received %s, closing balance %s\n",
		r.TotalAmountBilled.StringFixed(ledger.MoneyPlaces),
		r.TotalPaymentReceived.StringFixed(ledger.MoneyPlaces),
		r.ClosingBalance.StringFixed(ledger.MoneyPlaces))
	return nil
}
