package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadMedicines_LimpiaYDeduplicaConservandoLaUltima(t *testing.T) {
	csv := "medicine_id,name,salt,uses,unit,daily_dose,supplier_id,reorder_level\n" +
		"MED-001,  Paracetamol 500 , paracetamol ,fiebre,tableta,2,SUP-01,10\n" +
		"MED-002,Ibuprofeno,ibuprofeno,dolor,,1,SUP-01,5\n" +
		"MED-001,Paracetamol 500mg,paracetamol,fiebre,tableta,3,SUP-02,12\n"
	path := writeFile(t, t.TempDir(), "medicines.csv", []byte(csv))

	meds, err := ReadMedicines(path)
	require.NoError(t, err)
	require.Len(t, meds, 2)

	// Duplicado: gana la última fila, pero conserva la posición original.
	assert.Equal(t, "MED-001", meds[0].ID)
	assert.Equal(t, "Paracetamol 500mg", meds[0].Name)
	assert.Equal(t, "SUP-02", meds[0].SupplierID)
	assert.True(t, meds[0].DailyDose.Equal(decimal.NewFromInt(3)))

	// Unidad vacía cae al default.
	assert.Equal(t, "unidad", meds[1].Unit)
}

func TestReadBatches_RecortaStockNegativoYParseaFechas(t *testing.T) {
	csv := "medicine_id,batch_no,quantity,expiry_date\n" +
		"MED-001,L-01,-4,2025-01-10\n" +
		"MED-001,L-02,10,15/03/2025\n" +
		"MED-001,L-03,7,\n"
	path := writeFile(t, t.TempDir(), "batches.csv", []byte(csv))

	batches, err := ReadBatches(path)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.True(t, batches[0].Quantity.IsZero(), "stock negativo se recorta a cero")
	require.NotNil(t, batches[0].ExpiryDate)
	assert.Equal(t, "2025-01-10", batches[0].ExpiryDate.Format("2006-01-02"))

	require.NotNil(t, batches[1].ExpiryDate)
	assert.Equal(t, "2025-03-15", batches[1].ExpiryDate.Format("2006-01-02"))

	assert.Nil(t, batches[2].ExpiryDate, "vacío = sin vencimiento")
}

func TestReadBatches_FechaIlegibleEsError(t *testing.T) {
	csv := "medicine_id,batch_no,quantity,expiry_date\nMED-001,L-01,5,pronto\n"
	path := writeFile(t, t.TempDir(), "batches.csv", []byte(csv))

	_, err := ReadBatches(path)
	assert.Error(t, err)
}

func TestReadSuppliers_DecodificaLatin1(t *testing.T) {
	// "Farmacéutica" con é en ISO-8859-1 (0xE9): no es UTF-8 válido.
	csv := append([]byte("supplier_id,name,lead_time_days\nSUP-01,Farmac"), 0xE9)
	csv = append(csv, []byte("utica Sur,14\n")...)
	path := writeFile(t, t.TempDir(), "suppliers.csv", csv)

	suppliers, err := ReadSuppliers(path)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Farmacéutica Sur", suppliers[0].Name)
	assert.Equal(t, 14, suppliers[0].LeadTimeDays)
}

func TestReadDosage_SumaDeFranjas(t *testing.T) {
	csv := "medicine_id,before_breakfast,after_breakfast,at_8pm,after_dinner\n" +
		"MED-001,1,0,1,0.5\n"
	path := writeFile(t, t.TempDir(), "dosage.csv", []byte(csv))

	schedules, err := ReadDosage(path)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.True(t, schedules[0].DailyUnits().Equal(decimal.RequireFromString("2.5")))
}
