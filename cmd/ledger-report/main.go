package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/efreitasn/kipledger/internal/config"
	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/engine"
	"github.com/efreitasn/kipledger/internal/service"
	"github.com/efreitasn/kipledger/internal/store"
	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		date  = flag.String("date", "", "summary date YYYY-MM-DD (default today)")
		limit = flag.Int("limit", 10, "number of recent orders to list")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.StoreDriver == store.DriverMemory {
		logger.Warn("STORE_DRIVER is memory; the report will be empty")
	}

	ctx := context.Background()
	backend, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer backend.Close()

	summarySvc := service.NewSummaryService(engine.NewSummarizer(backend, backend), cfg.Location)
	orderSvc := service.NewOrderService(backend, backend, cfg.Location, service.ListLimits{
		Default: cfg.ListDefaultLimit,
		Max:     cfg.ListMaxLimit,
	}, logger)

	summary, err := summarySvc.Summary(ctx, *date)
	if err != nil {
		logger.Error("failed to compute summary", slog.String("error", err.Error()))
		os.Exit(1)
	}
	orders, err := orderSvc.List(ctx, *limit)
	if err != nil {
		logger.Error("failed to list orders", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := renderSummary(os.Stdout, summary); err != nil {
		logger.Error("failed to render summary", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout)
	if err := renderOrders(os.Stdout, orders); err != nil {
		logger.Error("failed to render orders", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func renderSummary(w io.Writer, s *engine.Summary) error {
	rateUpdated := "never"
	if s.RateUpdated != nil {
		rateUpdated = s.RateUpdated.UTC().Format("2006-01-02 15:04:05Z")
	}

	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Date", s.Date},
		{"Base rate (THB→LAK)", s.Rate.String()},
		{"Rate updated", rateUpdated},
		{"Today total LAK", s.Today.TotalLAK.StringFixed(2)},
		{"Today net profit LAK", s.Today.ProfitTotal.StringFixed(2)},
		{"Today rate profit LAK", s.Today.RateProfit.StringFixed(2)},
		{"Today other profit LAK", s.Today.OtherProfit.StringFixed(2)},
		{"Today orders", fmt.Sprint(s.Today.OrdersCount)},
		{"Month " + s.Month.Period + " total LAK", s.Month.TotalLAK.StringFixed(2)},
		{"Month " + s.Month.Period + " net profit LAK", s.Month.ProfitTotal.StringFixed(2)},
		{"Paid orders", fmt.Sprint(s.Payments.PaidOrders)},
		{"Unpaid orders", fmt.Sprint(s.Payments.UnpaidOrders)},
		{"Unpaid value LAK", s.Payments.UnpaidValueLAK.StringFixed(2)},
		{"Gross value LAK", s.GrossValueLAK.StringFixed(2)},
		{"All orders", fmt.Sprint(s.AllOrdersCount)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderOrders(w io.Writer, orders []*domain.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Customer", "Total LAK", "Net profit LAK", "Payment", "Status")
	for _, o := range orders {
		err := table.Append([]string{
			fmt.Sprint(o.ID),
			o.OrderDate,
			o.CustomerName,
			o.TotalLAK.StringFixed(2),
			o.NetProfitLAK.StringFixed(2),
			string(o.PaymentStatus),
			string(o.OrderStatus),
		})
		if err != nil {
			return err
		}
	}
	return table.Render()
}
