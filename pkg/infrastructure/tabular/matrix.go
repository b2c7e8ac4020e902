package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// Policy matrix column names, as stored in MatrizBaseRiesgo and InventarioMatriz.
const (
	MatrixColID            = "id_politica_base_riesgo"
	MatrixColConcatenado   = "concatenado"
	MatrixColSegmento      = "segmento"
	MatrixColPermanencia   = "permanencia"
	MatrixColFactorProv    = "factor_prov"
	MatrixColClasificacion = "clasificacion"
	MatrixColTipoMatriz    = "tipo_matriz"
	MatrixColSubsegmento   = "subsegmento"
	MatrixColNegocio       = "negocio"
	MatrixColEstado        = "estado"
	MatrixColCobertura     = "cobertura"
)

// MatrixHeader is the column order used when writing the policy matrix.
var MatrixHeader = []string{
	MatrixColID, MatrixColConcatenado, MatrixColSegmento, MatrixColPermanencia,
	MatrixColFactorProv, MatrixColClasificacion, MatrixColTipoMatriz,
	MatrixColSubsegmento, MatrixColNegocio, MatrixColEstado, MatrixColCobertura,
}

// DecodeMatrix parses policy rows. factor_prov is read in the 0-100 scale.
// A missing id column numbers rows from 1.
func DecodeMatrix(s Sheet) ([]*entities.MatrixEntry, error) {
	idx := make(map[string]int, len(s.Header))
	for i, h := range s.Header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, required := range []string{MatrixColConcatenado, MatrixColFactorProv, MatrixColClasificacion} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("matrix is missing required column %q", required)
		}
	}

	entries := make([]*entities.MatrixEntry, 0, len(s.Rows))
	for n, row := range s.Rows {
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if isBlank(row) {
			continue
		}

		id := int64(n + 1)
		if raw := cell(MatrixColID); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("matrix row %d: invalid %s %q: %w", n+2, MatrixColID, raw, err)
			}
			id = v
		}

		factor := entities.ParseDecimal(cell(MatrixColFactorProv))
		if !factor.Valid {
			return nil, fmt.Errorf("matrix row %d: invalid %s %q", n+2, MatrixColFactorProv, cell(MatrixColFactorProv))
		}

		entry, err := entities.NewMatrixEntry(id,
			cell(MatrixColConcatenado),
			cell(MatrixColSegmento),
			cell(MatrixColPermanencia),
			factor.Decimal,
			cell(MatrixColClasificacion),
			cell(MatrixColTipoMatriz))
		if err != nil {
			return nil, fmt.Errorf("matrix row %d: %w", n+2, err)
		}
		entry.Subsegmento = entities.NormalizeText(cell(MatrixColSubsegmento))
		entry.Negocio = entities.NormalizeText(cell(MatrixColNegocio))
		entry.Estado = entities.NormalizeText(cell(MatrixColEstado))
		entry.Cobertura = entities.NormalizeText(cell(MatrixColCobertura))
		entries = append(entries, entry)
	}
	return entries, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// EncodeMatrix renders entries with factor_prov back in the 0-100 scale.
func EncodeMatrix(entries []*entities.MatrixEntry) Sheet {
	s := Sheet{Header: append([]string(nil), MatrixHeader...)}
	for _, e := range entries {
		s.Rows = append(s.Rows, []string{
			strconv.FormatInt(e.PolicyID, 10),
			e.Concatenado,
			e.Segmento,
			e.Permanencia,
			e.FactorPercent().String(),
			string(e.Clasificacion),
			string(e.TipoMatriz),
			e.Subsegmento,
			e.Negocio,
			e.Estado,
			e.Cobertura,
		})
	}
	return s
}
