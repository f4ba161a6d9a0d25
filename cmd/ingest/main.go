// Ingesta del catálogo desde CSV exportados de la planilla.
//
//	ingest --dir ./data        carga suppliers.csv, medicines.csv, batches.csv y dosage.csv
//
// La ingesta es idempotente (upserts); correrla dos veces con la misma
// planilla no duplica nada.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/ingest"
	"github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/postgres"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/config"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/logger"
)

func main() {
	dirFlag := flag.String("dir", ".", "directorio con los CSV del catálogo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	loader := ingest.NewLoader(
		postgres.NewSupplierRepository(pool),
		postgres.NewMedicineRepository(pool),
		postgres.NewBatchRepository(pool),
		postgres.NewDosageScheduleRepository(pool),
		log,
	)

	sum, err := loader.LoadDir(*dirFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("ingesta")
	}
	fmt.Printf("proveedores: %d  medicamentos: %d  lotes: %d  planes: %d\n",
		sum.Suppliers, sum.Medicines, sum.Batches, sum.Schedules)
}
