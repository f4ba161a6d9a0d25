// Corrida de dosis diaria por línea de comandos.
//
//	dosage --date 2025-01-05            aplica esa fecha (default: hoy)
//	dosage --force                      re-aplica reemplazando los registros del día
//	dosage --dry-run --verbose          simula y muestra el detalle por lote
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dosage"
	"github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/postgres"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/config"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/logger"
)

func main() {
	var (
		dateFlag    = flag.String("date", "", "fecha a aplicar (YYYY-MM-DD); vacío = hoy")
		forceFlag   = flag.Bool("force", false, "re-aplicar una fecha ya corrida, reemplazando sus registros")
		verboseFlag = flag.Bool("verbose", false, "detalle por lote en la salida")
		dryRunFlag  = flag.Bool("dry-run", false, "calcular sin persistir")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	level := "info"
	if *verboseFlag {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level})

	runDate := time.Now().UTC()
	if *dateFlag != "" {
		runDate, err = time.ParseInLocation("2006-01-02", *dateFlag, time.UTC)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fecha inválida %q: usar YYYY-MM-DD\n", *dateFlag)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := dosage.NewRunUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewDosageScheduleRepository(pool),
		postgres.NewBatchRepository(pool),
		postgres.NewStockMoveRepository(pool),
		log,
	)

	report, err := uc.Run(ctx, dosage.Options{
		Date:    runDate,
		Force:   *forceFlag,
		Verbose: *verboseFlag,
		DryRun:  *dryRunFlag,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("corrida de dosis")
	}

	printReport(report, *verboseFlag)

	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}

func printReport(r *dosage.Report, verbose bool) {
	date := r.Date.Format("2006-01-02")
	switch {
	case r.AlreadyApplied:
		fmt.Printf("%s: ya aplicada; nada que hacer (usar --force para re-aplicar)\n", date)
		return
	case r.DryRun:
		fmt.Printf("%s (simulación, sin cambios):\n", date)
	default:
		fmt.Printf("%s:\n", date)
	}

	if r.ScrappedLots > 0 {
		fmt.Printf("  lotes vencidos dados de baja: %d\n", r.ScrappedLots)
	}
	fmt.Printf("  aplicados: %d   con faltante: %d   fallidos: %d\n",
		len(r.Applied), len(r.Shorted), len(r.Failed))

	for _, m := range r.Shorted {
		fmt.Printf("  FALTANTE %s: requerido %s, aplicado %s, faltan %s\n",
			m.MedicineID, m.Required.String(), m.Applied.String(), m.Shortfall.String())
	}
	for _, f := range r.Failed {
		fmt.Printf("  FALLÓ %s: %s\n", f.MedicineID, f.Err)
	}
	if verbose {
		for _, group := range [][]dosage.MedicineResult{r.Applied, r.Shorted} {
			for _, m := range group {
				for _, a := range m.Allocations {
					fmt.Printf("    %s  lote %s (#%d)  -%s\n",
						m.MedicineID, a.BatchNo, a.BatchID, a.Quantity.String())
				}
			}
		}
	}
}
