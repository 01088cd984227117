// Command codesctl manages activation codes from a terminal using the same
// code API client as the console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"activation-admin/internal/domain/model"
	"activation-admin/internal/infra/codeapi"
	"activation-admin/internal/usecase"

	"github.com/rs/zerolog"
)

// Default API base URL; can override with ACTIVATION_API_URL or -server.
const defaultServer = "http://localhost:8000"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("codesctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cmd := fs.String("cmd", "list", "Command: list|generate|toggle|delete")
	id := fs.Int64("id", 0, "Code id (toggle/delete)")
	name := fs.String("name", "", "Code name (generate)")
	days := fs.String("days", "", "Validity in days (generate)")
	limit := fs.String("limit", "", "Usage limit (generate)")
	yes := fs.Bool("yes", false, "Confirm delete")
	server := fs.String("server", "", "Override API base URL")
	token := fs.String("token", "", "Admin token (default $ADMIN_TOKEN)")
	timeout := fs.Duration("timeout", 10*time.Second, "Per-request timeout")
	verbose := fs.Bool("v", false, "Log API calls to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base := defaultServer
	if env := os.Getenv("ACTIVATION_API_URL"); env != "" {
		base = env
	}
	if *server != "" {
		base = *server
	}
	tok := os.Getenv("ADMIN_TOKEN")
	if *token != "" {
		tok = *token
	}
	if strings.TrimSpace(tok) == "" {
		return errors.New("admin token required (-token or ADMIN_TOKEN)")
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	}
	client := codeapi.NewClient(base, nil, *timeout, &logger)
	sess := &model.Session{ID: "cli", Token: tok}

	switch *cmd {
	case "list":
		codes, err := client.List(ctx, sess)
		if err != nil {
			return err
		}
		return printCodes(stdout, codes)
	case "generate":
		req, err := usecase.ParseGenerateForm(*name, *days, *limit)
		if err != nil {
			return err
		}
		code, err := client.Generate(ctx, sess, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, code)
		return nil
	case "toggle":
		if *id <= 0 {
			return errors.New("-id required")
		}
		return client.Toggle(ctx, sess, *id)
	case "delete":
		if *id <= 0 {
			return errors.New("-id required")
		}
		if !*yes {
			return fmt.Errorf("refusing to delete code %d without -yes", *id)
		}
		return client.Delete(ctx, sess, *id)
	default:
		return fmt.Errorf("unknown command %q", *cmd)
	}
}

func printCodes(w io.Writer, codes []*model.ActivationCode) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCODE\tACTIVE\tDAYS LEFT\tUSES")
	for _, c := range codes {
		if c == nil {
			continue
		}
		n := c.DisplayName()
		if n == "" {
			n = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%s\n", c.ID, n, c.Code, c.Active, c.ExpiryText(), c.UsageText())
	}
	return tw.Flush()
}
