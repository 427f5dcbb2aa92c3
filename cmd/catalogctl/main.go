// Command catalogctl browses a running catalog API and checks catalog files.
//
//	catalogctl list
//	catalogctl show <slug> [group=option ...]
//	catalogctl check <file>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/lmittmann/tint"

	"github.com/catalogd/catalogd/internal/catalog"
	"github.com/catalogd/catalogd/internal/client"
	"github.com/catalogd/catalogd/internal/config"
)

const usage = `usage:
  catalogctl [-api URL] list
  catalogctl [-api URL] show <slug> [group=option ...]
  catalogctl check <file>
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 2
	}

	flags := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := flags.String("api", cfg.APIURL, "catalog API base URL")
	timeout := flags.Duration("timeout", cfg.APITimeout, "request timeout")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	logger := slog.New(tint.NewHandler(stderr, &tint.Options{Level: cfg.LogLevel}))

	command, rest := flags.Arg(0), flags.Args()[1:]
	if command == "check" {
		return runCheck(rest, stdout, stderr)
	}

	c, err := client.New(*apiURL, client.Options{Timeout: *timeout, Logger: logger})
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	switch command {
	case "list":
		err = runList(ctx, c, stdout)
	case "show":
		if len(rest) == 0 {
			flags.Usage()
			return 2
		}
		err = runShow(ctx, c, rest[0], catalog.ParseSelection(rest[1:]), stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		flags.Usage()
		return 2
	}

	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			fmt.Fprintf(stderr, "not found: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return 0
}

func runList(ctx context.Context, c *client.Client, stdout io.Writer) error {
	items, err := c.ListProducts(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tPRICE\tCONDITION\tFREE SHIPPING")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", item.Slug, item.Title, formatPrice(item.Price), item.Condition, item.FreeShipping)
	}
	return tw.Flush()
}

func runShow(ctx context.Context, c *client.Client, slug string, sel catalog.Selection, stdout io.Writer) error {
	view, err := c.GetProductView(ctx, slug, sel)
	if err != nil {
		return err
	}
	if view.Product == nil {
		return fmt.Errorf("view for %q has no product", slug)
	}

	fmt.Fprintf(stdout, "%s (%s)\n", view.Product.Title, view.Product.Slug)
	fmt.Fprintf(stdout, "price: %s", formatPrice(view.Price))
	if view.Discount != nil {
		fmt.Fprintf(stdout, " (%.0f%% off)", *view.Discount)
	}
	fmt.Fprintln(stdout)

	switch {
	case view.SKU == nil:
		fmt.Fprintln(stdout, "sku: none selected")
	case view.OutOfStock:
		fmt.Fprintf(stdout, "sku: %s, out of stock\n", view.SKU.ID)
	default:
		fmt.Fprintf(stdout, "sku: %s, %d available\n", view.SKU.ID, view.AvailableQuantity)
	}

	for _, group := range view.Variants {
		options := make([]string, 0, len(group.Options))
		for _, option := range group.Options {
			label := option.Label
			if option.Selected {
				label = "[" + label + "]"
			}
			if !option.Available {
				label += " (unavailable)"
			}
			options = append(options, label)
		}
		fmt.Fprintf(stdout, "%s: %s\n", group.Name, strings.Join(options, ", "))
	}

	fmt.Fprintf(stdout, "seller: %s, %s, %s sales\n", view.Product.Seller.Nickname, view.Seller.ReputationLabel, view.Seller.Sales)
	if view.Payments.BestPlan != nil {
		fmt.Fprintf(stdout, "up to %d interest-free installments of %.2f with %s\n",
			view.Payments.BestPlan.Quantity, view.Payments.BestPlan.Amount, view.Payments.BestPlan.Method)
	}
	if len(view.Images) > 0 {
		fmt.Fprintf(stdout, "image: %s\n", view.Images[0])
	}
	return nil
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	path := args[0]

	format, err := catalog.FormatFromPath(path)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	products, err := catalog.NewParser().Parse(content, format)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return 1
	}

	if err := catalog.NewValidator().Validate(products); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(stdout, "%s: %s\n", path, line)
		}
		return 1
	}
	fmt.Fprintf(stdout, "%s: %d products ok\n", path, len(products))
	return 0
}

func formatPrice(price catalog.Price) string {
	return fmt.Sprintf("%s %.2f", price.Currency, price.Amount)
}
