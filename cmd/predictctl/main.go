// Command predictctl talks to a running prediction server and to the audit store.
//
//	predictctl predict -t Wimbledon -r F -a "Roger Federer" -a-age 38 -a-rank 3 -b "Rafael Nadal" -b-age 33 -b-rank 2
//	predictctl catalog
//	predictctl winners -since 168h
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/openmohaa/tennis-pred/internal/models"
	"github.com/openmohaa/tennis-pred/internal/worker"
)

const usage = `usage: predictctl <command> [flags]

commands:
  predict   request a winner prediction
  catalog   list tournaments, players and round codes
  winners   report the most often predicted winners from ClickHouse
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "predict":
		err = runPredict(os.Args[2:])
	case "catalog":
		err = runCatalog(os.Args[2:])
	case "winners":
		err = runWinners(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "predictctl: %v\n", err)
		os.Exit(1)
	}
}

func serverFlag(fs *flag.FlagSet) *string {
	def := os.Getenv("PREDICT_SERVER")
	if def == "" {
		def = "http://localhost:8080"
	}
	return fs.String("server", def, "prediction server base URL")
}

func runPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	server := serverFlag(fs)
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	tournament := fs.String("t", "", "tournament name")
	round := fs.String("r", "", "round code (RR, BR, R128, R64, R32, R16, QF, SF, F)")
	aName := fs.String("a", "", "player A name")
	aAge := fs.String("a-age", "", "player A age")
	aRank := fs.String("a-rank", "", "player A rank")
	bName := fs.String("b", "", "player B name")
	bAge := fs.String("b-age", "", "player B age")
	bRank := fs.String("b-rank", "", "player B rank")
	fs.Parse(args)

	req := models.MatchRequest{
		Tournament: *tournament,
		Round:      *round,
		PlayerA:    models.PlayerEntry{Name: *aName, Age: models.FlexNumber(*aAge), Rank: models.FlexNumber(*aRank)},
		PlayerB:    models.PlayerEntry{Name: *bName, Age: models.FlexNumber(*bAge), Rank: models.FlexNumber(*bRank)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := newClient(*server).Predict(ctx, &req)
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func runCatalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	server := serverFlag(fs)
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	catalog, err := newClient(*server).Catalog(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Tournaments:")
	for _, t := range catalog.Tournaments {
		fmt.Printf("  %s\n", t)
	}
	fmt.Println("Rounds:")
	for _, r := range catalog.Rounds {
		fmt.Printf("  %-5s %d\n", r.Code, r.Rank)
	}
	fmt.Println("Players:")
	for _, p := range catalog.Players {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func runWinners(args []string) error {
	fs := flag.NewFlagSet("winners", flag.ExitOnError)
	dsn := fs.String("clickhouse", os.Getenv("CLICKHOUSE_URL"), "ClickHouse DSN")
	since := fs.Duration("since", 7*24*time.Hour, "look-back window")
	limit := fs.Int("limit", 10, "rows to show")
	fs.Parse(args)

	if *dsn == "" {
		return fmt.Errorf("no ClickHouse DSN: set -clickhouse or CLICKHOUSE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := worker.OpenClickHouse(ctx, *dsn)
	if err != nil {
		return err
	}
	sink := worker.NewClickHouseSink(conn)
	defer sink.Close()

	winners, err := sink.TopWinners(ctx, time.Now().Add(-*since), *limit)
	if err != nil {
		return err
	}
	if len(winners) == 0 {
		fmt.Println("No predictions recorded in this window")
		return nil
	}

	fmt.Printf("%-30s %12s %10s\n", "WINNER", "PREDICTIONS", "AVG PROB")
	for _, w := range winners {
		fmt.Printf("%-30s %12d %9.1f%%\n", w.Winner, w.Predictions, w.AvgProbability*100)
	}
	return nil
}
