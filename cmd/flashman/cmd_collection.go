package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/ryanm101/flashman/internal/browser"
	"github.com/ryanm101/flashman/internal/catalog"
)

func collectionCommand() *cli.Command {
	return &cli.Command{
		Name:    "collection",
		Aliases: []string{"games"},
		Usage:   "manage your game collection",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list saved games",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "only titles containing this text",
					},
				},
				Action: withRuntime(collectionListAction),
			},
			{
				Name:      "add",
				Usage:     "add a search result to the collection",
				ArgsUsage: "<query> <n>",
				Action:    withRuntime(collectionAddAction),
			},
			{
				Name:      "remove",
				Usage:     "remove a game from the collection",
				ArgsUsage: "<id>",
				Action:    withRuntime(collectionRemoveAction),
			},
		},
	}
}

func collectionListAction(_ context.Context, cmd *cli.Command, rt *runtime) error {
	games := rt.collection.Filter(cmd.String("filter"))
	if outputCfg.JSON {
		if games == nil {
			games = []catalog.Record{}
		}
		PrintResult(games)
		return nil
	}
	if len(games) == 0 {
		PrintInfo("No games in your collection.\n")
		return nil
	}

	rows := make([][]string, 0, len(games))
	for i, g := range games {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			g.ID(),
			truncate(g.Title(), 40),
			g.Platform(),
		})
	}
	PrintTable([]string{"#", "ID", "TITLE", "PLATFORM"}, rows)
	return nil
}

func collectionAddAction(ctx context.Context, cmd *cli.Command, rt *runtime) error {
	query, n, err := queryAndIndex(cmd)
	if err != nil {
		return err
	}
	r, err := pick(ctx, rt, query, n)
	if err != nil {
		return err
	}
	PrintInfo("%s\n", r.Title())
	return report(rt.service.AddRequested(r))
}

func collectionRemoveAction(_ context.Context, cmd *cli.Command, rt *runtime) error {
	id := cmd.Args().First()
	if id == "" {
		return errors.New("usage: flashman collection remove <id>")
	}
	target := catalog.Record{"id": id}
	for _, g := range rt.collection.Snapshot() {
		if catalog.SameGame(g, target) {
			target = g
			break
		}
	}
	return report(rt.service.RemoveRequested(target))
}

// report prints the operation results among events. Failures become errors.
func report(events []browser.Event) error {
	for _, e := range events {
		res, ok := e.(browser.OperationResult)
		if !ok {
			continue
		}
		switch res.Kind {
		case browser.Failure:
			return errors.New(res.Message)
		case browser.Warning:
			PrintError("%s\n", res.Message)
		default:
			if outputCfg.JSON {
				PrintResult(map[string]string{"status": string(res.Kind), "message": res.Message})
			} else {
				PrintInfo("%s\n", res.Message)
			}
		}
	}
	return nil
}
