package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/internal/quotation/format"
)

// Commands returns every quotectl subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&listCmd{env: env},
		&statsCmd{env: env},
		&nextNumberCmd{env: env},
		&pdfCmd{env: env},
		&deleteCmd{env: env},
	}
}

// withSession opens a session, runs fn and maps the outcome to an exit status.
func (e *Env) withSession(ctx context.Context, fn func(*Session) error) subcommands.ExitStatus {
	session, err := e.Open(ctx)
	if err != nil {
		fmt.Fprintf(e.Err, "Error abriendo el almacenamiento: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if session.Close == nil {
			return
		}
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(e.Err, "Error cerrando el almacenamiento: %v\n", err)
		}
	}()

	if err := fn(session); err != nil {
		fmt.Fprintln(e.Err, describe(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Cotización no encontrada"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Estado de cotización inválido"
	default:
		return err.Error()
	}
}

type filterFlags struct {
	status string
	client string
	from   string
	to     string
	search string
}

func (f *filterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.status, "status", "", "Only quotations in this status (draft, sent, approved, rejected).")
	fs.StringVar(&f.client, "client", "", "Substring of the client name or company.")
	fs.StringVar(&f.from, "from", "", "Earliest quotation date, DD/MM/YYYY or YYYY-MM-DD.")
	fs.StringVar(&f.to, "to", "", "Latest quotation date, DD/MM/YYYY or YYYY-MM-DD.")
	fs.StringVar(&f.search, "q", "", "Free text matched against number, client and item descriptions.")
}

func (f *filterFlags) filter() (domain.Filter, error) {
	out := domain.Filter{
		Client: strings.TrimSpace(f.client),
		Search: strings.TrimSpace(f.search),
	}

	status := strings.ToLower(strings.TrimSpace(f.status))
	if status != "" && status != "all" && status != "todos" {
		out.Status = domain.Status(status)
		if !out.Status.Valid() {
			return domain.Filter{}, domain.ErrInvalidStatus
		}
	}

	var err error
	if out.DateFrom, err = parseDate(f.from, false); err != nil {
		return domain.Filter{}, err
	}
	if out.DateTo, err = parseDate(f.to, true); err != nil {
		return domain.Filter{}, err
	}
	return out, nil
}

func parseDate(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{format.DateLayout, time.DateOnly} {
		parsed, err := time.ParseInLocation(layout, value, time.UTC)
		if err != nil {
			continue
		}
		if endOfDay {
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		return &parsed, nil
	}
	return nil, fmt.Errorf("fecha inválida %q", value)
}

type listCmd struct {
	env    *Env
	filter filterFlags
	raw    bool
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list quotations matching the given filters" }
func (*listCmd) Usage() string {
	return `quotectl list [-status <status>] [-client <text>] [-from <date>] [-to <date>] [-q <text>] [-raw]

  Prints the stored quotations as a table, in storage order.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.filter.register(f)
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it.")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter.filter()
	if err != nil {
		fmt.Fprintln(c.env.Err, describe(err))
		return subcommands.ExitUsageError
	}

	return c.env.withSession(ctx, func(s *Session) error {
		records, err := s.Service.List(ctx, domain.ListRequest{Filter: filter})
		if err != nil {
			return err
		}
		return c.env.printMarkdown(quotationsMarkdown(records, s.Currency), c.raw)
	})
}

type statsCmd struct {
	env    *Env
	filter filterFlags
	raw    bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "summarize quotations per status" }
func (*statsCmd) Usage() string {
	return `quotectl stats [filters] [-raw]

  Counts quotations per status and sums their totals. Accepts the same
  filters as list.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	c.filter.register(f)
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it.")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filter.filter()
	if err != nil {
		fmt.Fprintln(c.env.Err, describe(err))
		return subcommands.ExitUsageError
	}

	return c.env.withSession(ctx, func(s *Session) error {
		stats, err := s.Service.Stats(ctx, filter)
		if err != nil {
			return err
		}
		return c.env.printMarkdown(statsMarkdown(stats, s.Currency), c.raw)
	})
}

type nextNumberCmd struct {
	env *Env
}

func (*nextNumberCmd) Name() string           { return "next-number" }
func (*nextNumberCmd) Synopsis() string       { return "print the number the next quotation will get" }
func (*nextNumberCmd) Usage() string          { return "quotectl next-number\n" }
func (*nextNumberCmd) SetFlags(*flag.FlagSet) {}

func (c *nextNumberCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withSession(ctx, func(s *Session) error {
		number, err := s.Service.NextNumber(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.env.Out, number)
		return err
	})
}

type pdfCmd struct {
	env    *Env
	output string
}

func (*pdfCmd) Name() string     { return "pdf" }
func (*pdfCmd) Synopsis() string { return "export a quotation as PDF" }
func (*pdfCmd) Usage() string {
	return `quotectl pdf [-o <file>] <id>

  Writes the quotation document. The file defaults to <number>.pdf in the
  current directory.
`
}

func (c *pdfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Destination file.")
}

func (c *pdfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(c.env.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	return c.env.withSession(ctx, func(s *Session) error {
		doc, err := s.Service.RenderPDF(ctx, id)
		if err != nil {
			return err
		}
		path := c.output
		if path == "" {
			path = doc.Filename
		}
		if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.env.Out, "PDF guardado en %s\n", path)
		return err
	})
}

type deleteCmd struct {
	env *Env
}

func (*deleteCmd) Name() string           { return "delete" }
func (*deleteCmd) Synopsis() string       { return "delete a quotation" }
func (*deleteCmd) Usage() string          { return "quotectl delete <id>\n" }
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(c.env.Err, c.Usage())
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	return c.env.withSession(ctx, func(s *Session) error {
		if err := s.Service.Delete(ctx, id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(c.env.Out, "Cotización %s eliminada\n", id)
		return err
	})
}
