// Package ingest carga el catálogo desde archivos CSV exportados de la
// planilla original (suppliers.csv, medicines.csv, batches.csv, dosage.csv).
// Aplica las reglas de limpieza de la ingesta: trim de texto, stock negativo
// recortado a cero, fechas ISO y deduplicación conservando la última fila.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
)

// readRecords lee un CSV con encabezado y devuelve un mapa columna->valor por fila.
// Acepta UTF-8 y, si el contenido no es UTF-8 válido, lo decodifica como
// ISO-8859-1 (las planillas exportadas de Excel suelen venir en Latin-1).
func readRecords(path string) ([]map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw)))
		if err != nil {
			return nil, fmt.Errorf("decodificar %s como ISO-8859-1: %w", path, err)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadSuppliers lee suppliers.csv. Filas duplicadas por supplier_id: gana la última.
func ReadSuppliers(path string) ([]*entity.Supplier, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	byID := map[string]*entity.Supplier{}
	var order []string
	for _, rec := range records {
		id := rec["supplier_id"]
		if id == "" {
			continue
		}
		lead, _ := strconv.Atoi(rec["lead_time_days"])
		if lead < 0 {
			lead = 0
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = &entity.Supplier{ID: id, Name: rec["name"], LeadTimeDays: lead}
	}
	return collect(byID, order), nil
}

// ReadMedicines lee medicines.csv. Filas duplicadas por medicine_id: gana la última.
func ReadMedicines(path string) ([]*entity.Medicine, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	byID := map[string]*entity.Medicine{}
	var order []string
	for _, rec := range records {
		id := rec["medicine_id"]
		if id == "" {
			continue
		}
		unit := rec["unit"]
		if unit == "" {
			unit = "unidad"
		}
		m := &entity.Medicine{
			ID:           id,
			Name:         rec["name"],
			Salt:         rec["salt"],
			Uses:         rec["uses"],
			Unit:         unit,
			DailyDose:    parseQuantity(rec["daily_dose"]),
			SupplierID:   rec["supplier_id"],
			ReorderLevel: parseQuantity(rec["reorder_level"]),
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = m
	}
	return collect(byID, order), nil
}

// ReadBatches lee batches.csv. Duplicados por (medicine_id, batch_no): gana la última fila.
func ReadBatches(path string) ([]*entity.Batch, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	byKey := map[string]*entity.Batch{}
	var order []string
	for _, rec := range records {
		medID, batchNo := rec["medicine_id"], rec["batch_no"]
		if medID == "" || batchNo == "" {
			continue
		}
		b := &entity.Batch{
			MedicineID: medID,
			BatchNo:    batchNo,
			Quantity:   parseQuantity(rec["quantity"]),
		}
		if v := rec["expiry_date"]; v != "" {
			d, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("lote %s/%s: %w", medID, batchNo, err)
			}
			b.ExpiryDate = &d
		}
		key := medID + "\x00" + batchNo
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = b
	}
	return collect(byKey, order), nil
}

// ReadDosage lee dosage.csv con las cuatro franjas del plan diario.
func ReadDosage(path string) ([]*entity.DosageSchedule, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	byID := map[string]*entity.DosageSchedule{}
	var order []string
	for _, rec := range records {
		id := rec["medicine_id"]
		if id == "" {
			continue
		}
		s := &entity.DosageSchedule{
			MedicineID:      id,
			BeforeBreakfast: parseQuantity(rec["before_breakfast"]),
			AfterBreakfast:  parseQuantity(rec["after_breakfast"]),
			AtEightPM:       parseQuantity(rec["at_8pm"]),
			AfterDinner:     parseQuantity(rec["after_dinner"]),
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = s
	}
	return collect(byID, order), nil
}

// parseQuantity interpreta un número de la planilla; vacío o ilegible = 0,
// negativos recortados a cero.
func parseQuantity(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// parseDate acepta YYYY-MM-DD y DD/MM/YYYY (los dos formatos que trae la planilla).
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, domain.ErrInvalidDate)
}

func collect[T any](byKey map[string]T, order []string) []T {
	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, byKey[k])
	}
	return out
}
