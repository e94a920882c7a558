// Package fixtures turns fixture inputs (the built-in sample, a JSON file or
// database sales) into the records the document composer consumes.
package fixtures

import (
	"fmt"
	"time"

	"github.com/jonathan/openformat/internal/document"
	"github.com/jonathan/openformat/internal/layout"
	"github.com/jonathan/openformat/internal/record"
	"github.com/jonathan/openformat/internal/types"
)

// Software defaults written to A000 when the input leaves them empty.
const (
	DefaultSoftwareRegistration = "00000001"
	DefaultManufacturerVAT      = "000000001"
	DefaultManufacturerName     = "MyCompany"
	DefaultCurrency             = "ILS"
	DefaultCompression          = "zip"

	// accountingDoubleEntry is field 1013 value 2.
	accountingDoubleEntry = 2
)

// Fixture is a fully resolved input: the INI header values and the ordered
// data-file records, header and trailer included.
type Fixture struct {
	VATNumber  string
	PrimaryID  string
	OutputPath string
	Header     record.Values
	Records    []record.Record
}

// BodyCount is the number of records between the A100 header and Z900 trailer.
func (f Fixture) BodyCount() int {
	if len(f.Records) < 2 {
		return 0
	}
	return len(f.Records) - 2
}

// Build resolves in into a Fixture. at stamps the A000 process date/time and
// the output path; an empty PrimaryID is derived from a fresh UUID.
func Build(in types.FixtureInput, at time.Time) (Fixture, error) {
	if err := in.Validate(); err != nil {
		return Fixture{}, fmt.Errorf("invalid fixture input: %w", err)
	}

	primaryID := in.PrimaryID
	if primaryID == "" {
		primaryID = NewPrimaryID()
	}
	vat := in.Business.VATNumber

	f := Fixture{
		VATNumber:  vat,
		PrimaryID:  primaryID,
		OutputPath: OutputPath(vat, at),
	}
	f.Header = headerValues(in, primaryID, f.OutputPath, at)

	ids := record.Values{"vat_number": vat, "primary_id": primaryID}
	a100, err := record.New(layout.CodeA100, ids)
	if err != nil {
		return Fixture{}, err
	}
	f.Records = append(f.Records, a100)

	for i, ri := range in.Records {
		r, err := record.New(ri.Code, normalizeValues(ri.Values))
		if err != nil {
			return Fixture{}, fmt.Errorf("record %d: %w", i+1, err)
		}
		if r.Type.Has("vat_number") {
			if _, ok := r.Get("vat_number"); !ok {
				r = r.With("vat_number", vat)
			}
		}
		f.Records = append(f.Records, r)
	}

	z900, err := record.New(layout.CodeZ900, ids)
	if err != nil {
		return Fixture{}, err
	}
	f.Records = append(f.Records, z900)
	return f, nil
}

// Check builds in and composes both documents in memory, reporting the first
// record that would not render.
func Check(in types.FixtureInput) error {
	f, err := Build(in, time.Now())
	if err != nil {
		return err
	}
	data, err := document.Compose(document.KindData, f.Records)
	if err != nil {
		return err
	}
	_, err = document.ComposeINI(f.Header, data)
	return err
}

func headerValues(in types.FixtureInput, primaryID, outputPath string, at time.Time) record.Values {
	sw := in.Software
	b := in.Business

	taxYear := in.Period.TaxYear
	if taxYear == 0 {
		taxYear = at.Year()
	}
	softwareType := sw.Type
	if softwareType == 0 {
		softwareType = 1
	}

	return record.Values{
		"vat_number":            b.VATNumber,
		"primary_id":            primaryID,
		"software_registration": orDefault(sw.Registration, DefaultSoftwareRegistration),
		"software_name":         sw.Name,
		"software_version":      sw.Version,
		"manufacturer_vat":      orDefault(sw.ManufacturerVAT, DefaultManufacturerVAT),
		"manufacturer_name":     orDefault(sw.ManufacturerName, DefaultManufacturerName),
		"software_type":         softwareType,
		"output_path":           outputPath,
		"accounting_type":       accountingDoubleEntry,
		"balance_required":      false,
		"company_registration":  b.CompanyRegistration,
		"withholding_file":      b.WithholdingFile,
		"business_name":         b.Name,
		"street":                b.Street,
		"house_number":          b.HouseNumber,
		"city":                  b.City,
		"zip":                   b.Zip,
		"tax_year":              taxYear,
		"period_start":          in.Period.Start,
		"period_end":            in.Period.End,
		"process_date":          at,
		"process_time":          at,
		"language_code":         0,
		"charset":               0,
		"compression_software":  DefaultCompression,
		"currency":              DefaultCurrency,
		"has_branches":          b.HasBranches,
	}
}

// normalizeValues copies v, turning JSON numbers into decimal strings so that
// integer-valued fields never pass through floating point.
func normalizeValues(v map[string]any) record.Values {
	out := make(record.Values, len(v))
	for k, x := range v {
		out[k] = normalizeValue(x)
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
