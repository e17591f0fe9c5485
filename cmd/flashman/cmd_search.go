package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ryanm101/flashman/internal/browser"
	"github.com/ryanm101/flashman/internal/catalog"
	"github.com/ryanm101/flashman/internal/search"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search the catalog",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Usage:   "page of results to show",
				Value:   1,
			},
		},
		Action: withRuntime(searchAction),
	}
}

func searchAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	outcome := rt.service.Search(ctx, query)
	if errors.Is(outcome.Err, browser.ErrEmptyQuery) {
		return errors.New(browser.MsgEmptyQuery)
	}
	if outcome.Err != nil {
		return fmt.Errorf("%s %w", browser.MsgSearchFailed, outcome.Err)
	}

	sess := search.NewSession(outcome.Results, cfg.GetPageSize())
	var page []catalog.Record
	for i := 0; i < max(cmd.Int("page"), 1); i++ {
		page = sess.NextPage()
	}
	shown := catalog.Displayable(page)
	total := len(catalog.Displayable(outcome.Results))

	first := (sess.Page()-1)*sess.PageSize() + 1
	rows := make([][]string, 0, len(shown))
	for i, r := range shown {
		rows = append(rows, []string{
			strconv.Itoa(first + i),
			r.ID(),
			truncate(r.Title(), 40),
			r.Platform(),
			truncate(r.Field("developer"), 24),
		})
	}

	if len(rows) == 0 {
		PrintInfo("No results on page %d (found %d games).\n", cmd.Int("page"), total)
		return nil
	}
	PrintTable([]string{"#", "ID", "TITLE", "PLATFORM", "DEVELOPER"}, rows)
	PrintInfo("\nPage %d of %d, found %d games.\n", sess.Page(), pages(total, sess.PageSize()), total)
	return nil
}

func pages(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}

func detailsCommand() *cli.Command {
	return &cli.Command{
		Name:      "details",
		Usage:     "show every field of a search result",
		ArgsUsage: "<query> <n>",
		Action:    withRuntime(detailsAction),
	}
}

func detailsAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	query, n, err := queryAndIndex(cmd)
	if err != nil {
		return err
	}
	r, err := pick(ctx, rt, query, n)
	if err != nil {
		return err
	}

	outcome := rt.service.Details(ctx, r)
	if outcome.Err != nil {
		PrintError("Warning: %v\n", outcome.Err)
	}

	if outputCfg.JSON {
		PrintResult(map[string]any{
			"record":        r,
			"addApps":       outcome.AddApps,
			"inCollection":  rt.collection.Contains(r),
			"platformClass": catalog.PlatformClass(r.Platform()),
		})
		return nil
	}

	rows := make([][]string, 0, len(r))
	for _, k := range r.Keys() {
		rows = append(rows, []string{k, truncate(r.Field(k), 80)})
	}
	PrintTable([]string{"FIELD", "VALUE"}, rows)

	if len(outcome.AddApps) > 0 {
		PrintInfo("\nAdditional applications:\n")
		for _, app := range outcome.AddApps {
			PrintInfo("  %s: %s %s\n", app.Name, app.ApplicationPath, app.LaunchCommand)
		}
	}
	owned := "no"
	if rt.collection.Contains(r) {
		owned = "yes"
	}
	PrintInfo("\nIn collection: %s\n", owned)
	return nil
}

// queryAndIndex parses "<query...> <n>" arguments.
func queryAndIndex(cmd *cli.Command) (string, int, error) {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return "", 0, fmt.Errorf("usage: flashman %s <query> <n>", cmd.Name)
	}
	n, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid result number %q", args[len(args)-1])
	}
	return strings.Join(args[:len(args)-1], " "), n, nil
}
