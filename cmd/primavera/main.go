package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/config"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/pipeline"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/server"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	store := pipeline.NewStore(db)

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		priceFile := fs.String("price", "", "price list xlsx")
		masterFile := fs.String("master", "", "master catalog xlsx")
		priceCode := fs.Int("priceCode", 0, "price list code column (1-based)")
		priceDesc := fs.Int("priceDesc", 0, "price list description column (1-based)")
		pricePrice := fs.Int("pricePrice", 0, "price list price column (1-based)")
		masterProduct := fs.Int("masterProduct", 0, "master product column (1-based)")
		masterUnit := fs.Int("masterUnit", 0, "master unit column (1-based)")
		masterCost := fs.Int("masterCost", 0, "master cost column (1-based)")
		out := fs.String("out", cfg.OutputDir, "output directory")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*priceFile) == "" || strings.TrimSpace(*masterFile) == "" {
			must(fmt.Errorf("--price and --master are required"))
		}

		priceBlob, err := os.ReadFile(*priceFile)
		must(err)
		masterBlob, err := os.ReadFile(*masterFile)
		must(err)

		priceTable, err := pipeline.LoadWorkbookTable(priceBlob)
		must(err)
		masterTable, err := pipeline.LoadWorkbookTable(masterBlob)
		must(err)

		cleaner := pipeline.NewCurrencyCleaner(cfg.CurrencyMarkers, cfg.ColumnRemovalCutoff)
		priceTable = cleaner.Clean(priceTable)
		masterTable = cleaner.Clean(masterTable)

		priceCols := pipeline.PriceColumns{Code: *priceCode, Description: *priceDesc, Price: *pricePrice}
		masterCols := pipeline.MasterColumns{Product: *masterProduct, Unit: *masterUnit, Cost: *masterCost}

		prices, err := pipeline.ProjectPriceRecords(priceTable, priceCols)
		must(err)
		masters, err := pipeline.ProjectMasterRecords(masterTable, masterCols)
		must(err)

		result := pipeline.NewOrchestrator(cfg, store).Run(masters, prices)
		fmt.Printf("run %s: matched=%d pending=%d duplicates=%d unmatched=%d skippedUnit=%d\n",
			result.TraceID, result.Counts.Matched, result.Counts.Pending,
			result.Counts.Duplicates, result.Counts.Unmatched, result.Counts.SkippedUnit)

		paths, err := pipeline.ExportWorkbooks(
			result, masterTable, priceTable, masterCols, priceCols,
			baseName(*masterFile), baseName(*priceFile), *out,
		)
		must(err)
		fmt.Printf("exported master=%s price=%s\n", paths.Master, paths.Price)
	case "mail:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		eml := fs.String("eml", "", "raw message file")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*eml) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--eml and --out are required"))
		}
		raw, err := os.ReadFile(*eml)
		must(err)
		table, name, err := pipeline.ExtractPriceListFromEmail(raw)
		must(err)
		must(pipeline.WriteTable(*out, table))
		fmt.Printf("imported %q: %d rows to %s\n", name, len(table), *out)
	case "review:serve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		addr := fs.String("addr", cfg.ReviewAddr, "listen address")
		_ = fs.Parse(os.Args[2:])
		must(store.PreloadConfirmed())
		must(store.PreloadPending())
		must(server.New(cfg, store).Run(*addr))
	case "confirmed:list":
		rows, err := store.ConfirmedRows()
		must(err)
		for _, m := range rows {
			fmt.Printf("%d\t%.2f%%\t%s <-> %s\t%.2f/%.2f\n", m.ID, m.Similarity, m.ProductA, m.ProductB, m.PriceA, m.PriceB)
		}
	case "pending:list":
		rows, err := store.PendingRows()
		must(err)
		for _, m := range rows {
			fmt.Printf("%d\t%.2f%%\t%s <-> %s\t%.2f/%.2f\n", m.ID, m.Similarity, m.ProductA, m.ProductB, m.PriceA, m.PriceB)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func usage() {
	fmt.Println("usage: primavera <command>")
	fmt.Println("commands:")
	fmt.Println("  run --price=lista.xlsx --master=maestro.xlsx --priceCode=1 --priceDesc=2 --pricePrice=3 --masterProduct=1 --masterUnit=2 --masterCost=3 [--out=./out]")
	fmt.Println("  mail:import --eml=message.eml --out=./data/lista.xlsx")
	fmt.Println("  review:serve [--addr=:8080]")
	fmt.Println("  confirmed:list")
	fmt.Println("  pending:list")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
