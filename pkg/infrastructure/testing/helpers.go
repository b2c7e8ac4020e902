package testing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

// Expectation is the classification a fixture row must end up with.
type Expectation struct {
	Brand      string
	Class      entities.RiskClass
	Factor     string
	BaseRiesgo string
	Provision  string
	Rule       string
}

// RiskBaseExpectations is keyed by LOTE.
var RiskBaseExpectations = map[string]Expectation{
	"AN-OBS": {Brand: "AVON", Class: entities.ClassHigh, Factor: "0.4", BaseRiesgo: "1000", Provision: "400", Rule: "AN3"},
	"AN-DSP": {Brand: "NATURA", Class: entities.ClassLow, Factor: "0.05", BaseRiesgo: "0", Provision: "100", Rule: "AN5"},
	"OB-K":   {Brand: "LOREAL", Class: entities.ClassLow, Factor: "0", BaseRiesgo: "0", Provision: "0", Rule: "OB2"},
	"OB-OTR": {Brand: "OTRAS", Class: entities.ClassLow, Factor: "0", BaseRiesgo: "0", Provision: "0", Rule: "OB4"},
	"OB-W":   {Brand: "NIVEA", Class: entities.ClassMedium, Factor: "0.2", BaseRiesgo: "300", Provision: "60", Rule: "OB5"},
	"OB-AGE": {Brand: "NIVEA", Class: entities.ClassHigh, Factor: "0.5", BaseRiesgo: "800", Provision: "400", Rule: "OB6B-AGED"},
}

// RiskBaseSheet is a small inventory extract covering both brand families.
// Rows are interleaved so that assembly order (AVON/NATURA first) differs
// from input order.
func RiskBaseSheet() tabular.Sheet {
	return tabular.Sheet{
		Header: []string{
			entities.ColAnioMes, entities.ColNegocioInventarios, entities.ColMarcaQM, entities.ColLote,
			entities.ColIndicadorStockEspec, entities.ColTipoMaterialI,
			entities.ColPermanencia, entities.ColRangoPermanencia, entities.ColRangoCobertura,
			entities.ColRangoProxVencerMM, entities.ColValorBloqueadoMM, entities.ColValorObsoleto, entities.ColValorTotalMM,
			entities.ColFechaEntrada, entities.ColFechaObsoleto, entities.ColFechaBloqueado, entities.ColFechCaducidad,
		},
		Rows: [][]string{
			{"2024-01", "FPT", "avon", "AN-OBS", "SIN ASIGNAR", "PRODUCTO TERMINADO",
				"100", "2.ENTRE 90 Y 180 DIAS", "3.COB > 6 MESES",
				"3.MAYOR A 6 MESES", "0", "50", "1000",
				"01/01/2024", "01/10/2023", "#", ""},
			{"2024-01", "PT", "LOREAL", "OB-K", "K", "PRODUCTO TERMINADO",
				"10", "1.MENOR DE 90 DIAS", "1.COB < 3 MESES",
				"3.MAYOR A 6 MESES", "0", "0", "700",
				"01/01/2024", "", "", ""},
			{"2024-01", "PT", "Natura", "AN-DSP", "SIN ASIGNAR", "PRODUCTO TERMINADO",
				"100", "2.ENTRE 90 Y 180 DIAS", "1.COB < 3 MESES",
				"3.MAYOR A 6 MESES", "0", "0", "2000",
				"01/01/2024", "", "", ""},
			{"2024-01", "PT", "OTRAS", "OB-OTR", "SIN ASIGNAR", "PRODUCTO TERMINADO",
				"400", "5.MAYOR O IGUAL A 360 DIAS", "3.COB > 6 MESES",
				"3.MAYOR A 6 MESES", "0", "900", "900",
				"01/01/2024", "01/06/2022", "", ""},
			{"2024-01", "PT", "NIVEA", "OB-W", "W", "PRODUCTO TERMINADO",
				"45", "1.MENOR DE 90 DIAS", "2.COB 3 A 6 MESES",
				"3.MAYOR A 6 MESES", "300", "0", "1200",
				"01/01/2024", "", "15/12/2023", ""},
			{"2024-01", "PT", "NIVEA", "OB-AGE", "SIN ASIGNAR", "PRODUCTO TERMINADO",
				"600", "5.MAYOR O IGUAL A 360 DIAS", "3.COB > 6 MESES",
				"3.MAYOR A 6 MESES", "0", "0", "800",
				"01/01/2024", "", "", ""},
		},
	}
}

// RiskBaseMatrix is the policy matrix matching RiskBaseSheet. Entry 99
// carries a key no row produces.
func RiskBaseMatrix() []*entities.MatrixEntry {
	specs := []struct {
		id      int64
		key     string
		percent string
		class   string
		tipo    string
	}{
		{1, "FPTOBSOLETO2.ENTRE 90 Y 180 DIAS", "40", "ALTO", "AVON NATURA"},
		{2, "1.COB < 3 MESES2.ENTRE 90 Y 180 DIAS", "5", "BAJO", "AVON NATURA"},
		{3, "EXPERTOS LOCALESBLOQUEADO1.MENOR DE 90 DIAS", "20", "MEDIO", "STOCK W"},
		{4, "EXPERTOS LOCALESFULLDISPONIBLE 6.ENTRE 540 Y 720 DIAS", "50", "ALTO", "OBSOLETO BLOQUEADO VENCIDO"},
		{99, "EXPERTOS LOCALESFULL1.COB < 3 MESES1.MENOR DE 90 DIAS", "30", "MEDIO", "PAV"},
	}

	entries := make([]*entities.MatrixEntry, 0, len(specs))
	for _, s := range specs {
		e, err := entities.NewMatrixEntry(s.id, s.key, "", "", decimal.RequireFromString(s.percent), s.class, s.tipo)
		if err != nil {
			panic(fmt.Sprintf("fixture policy %d: %v", s.id, err))
		}
		e.Subsegmento = "FULL"
		entries = append(entries, e)
	}
	return entries
}

// BuildRiskBaseTestData loads RiskBaseSheet and RiskBaseMatrix into
// in-memory repositories.
func BuildRiskBaseTestData() (*memory.InventoryRepository, *memory.MatrixRepository) {
	ds, err := tabular.DecodeInventory(RiskBaseSheet())
	if err != nil {
		panic(fmt.Sprintf("fixture inventory: %v", err))
	}

	inventoryRepo := memory.NewInventoryRepository()
	if err := inventoryRepo.Store(ds); err != nil {
		panic(err)
	}

	matrixRepo := memory.NewMatrixRepository(8)
	if err := matrixRepo.LoadEntries(RiskBaseMatrix()); err != nil {
		panic(err)
	}
	return inventoryRepo, matrixRepo
}
