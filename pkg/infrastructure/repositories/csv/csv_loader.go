package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/vsinha/riskbase/pkg/domain/entities"
	"github.com/vsinha/riskbase/pkg/domain/repositories"
	"github.com/vsinha/riskbase/pkg/infrastructure/tabular"
)

// Supported file encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// Loader reads inventory extracts and policy matrices from CSV files and
// writes processed tables back out.
type Loader struct {
	encoding string
	comma    rune
}

// NewLoader creates a UTF-8, comma separated loader
func NewLoader() *Loader {
	return &Loader{encoding: EncodingUTF8, comma: ','}
}

// WithEncoding returns a copy of the loader using the given file encoding.
func (l *Loader) WithEncoding(encoding string) (*Loader, error) {
	enc := strings.ToLower(strings.TrimSpace(encoding))
	switch enc {
	case "", "utf8", EncodingUTF8:
		enc = EncodingUTF8
	case "cp1252", "latin1", EncodingWindows1252:
		enc = EncodingWindows1252
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q (expected %s or %s)", encoding, EncodingUTF8, EncodingWindows1252)
	}
	c := *l
	c.encoding = enc
	return &c, nil
}

// WithComma returns a copy of the loader using the given field separator.
func (l *Loader) WithComma(comma rune) *Loader {
	c := *l
	c.comma = comma
	return &c
}

// Encoding reports the file encoding in use.
func (l *Loader) Encoding() string {
	return l.encoding
}

// ReadSheet reads a whole CSV file as header plus rows.
func (l *Loader) ReadSheet(filename string) (tabular.Sheet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return tabular.Sheet{}, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	return l.readSheet(file)
}

func (l *Loader) readSheet(r io.Reader) (tabular.Sheet, error) {
	if l.encoding == EncodingWindows1252 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.Comma = l.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return tabular.Sheet{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return tabular.Sheet{}, fmt.Errorf("CSV has no header row")
	}
	return tabular.Sheet{Header: records[0], Rows: records[1:]}, nil
}

// LoadInventory loads an inventory extract from a CSV file
func (l *Loader) LoadInventory(filename string) (*entities.Dataset, error) {
	sheet, err := l.ReadSheet(filename)
	if err != nil {
		return nil, fmt.Errorf("inventory CSV: %w", err)
	}
	ds, err := tabular.DecodeInventory(sheet)
	if err != nil {
		return nil, fmt.Errorf("inventory CSV %s: %w", filename, err)
	}
	return ds, nil
}

// LoadMatrix loads policy entries from a CSV file
func (l *Loader) LoadMatrix(filename string) ([]*entities.MatrixEntry, error) {
	sheet, err := l.ReadSheet(filename)
	if err != nil {
		return nil, fmt.Errorf("matrix CSV: %w", err)
	}
	entries, err := tabular.DecodeMatrix(sheet)
	if err != nil {
		return nil, fmt.Errorf("matrix CSV %s: %w", filename, err)
	}
	return entries, nil
}

// WriteTable writes a processed table to filename.
func (l *Loader) WriteTable(filename string, table repositories.ResultTable) error {
	return l.writeFile(filename, tabular.EncodeTable(table))
}

// WriteMatrix writes policy entries with factor_prov in the 0-100 scale.
func (l *Loader) WriteMatrix(filename string, entries []*entities.MatrixEntry) error {
	return l.writeFile(filename, tabular.EncodeMatrix(entries))
}

func (l *Loader) writeFile(filename string, s tabular.Sheet) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filename, err)
	}
	if err := l.WriteSheet(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteSheet writes a sheet to w in the loader's encoding.
func (l *Loader) WriteSheet(w io.Writer, s tabular.Sheet) error {
	var closer io.Closer
	if l.encoding == EncodingWindows1252 {
		tw := transform.NewWriter(w, charmap.Windows1252.NewEncoder())
		w, closer = tw, tw
	}

	writer := csv.NewWriter(w)
	writer.Comma = l.comma
	if err := writer.Write(s.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(s.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to encode CSV: %w", err)
		}
	}
	return nil
}
