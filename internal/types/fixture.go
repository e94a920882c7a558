// Package types provides the input and configuration structures shared across the openformat packages.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Variant is one output encoding: Name becomes the file suffix, Codepage selects the charset.
type Variant struct {
	Name     string `json:"name" validate:"required,max=32,excludesall=/\\:*?<>0x7C"`
	Codepage string `json:"codepage" validate:"required"`
}

// DefaultVariants returns the encodings tried when none are configured, most likely accepted first.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "Win1255", Codepage: "windows-1255"},
		{Name: "ISO8859-8", Codepage: "iso-8859-8"},
		{Name: "CP862", Codepage: "cp862"},
	}
}

// Business identifies the reporting business (INI fields 1003, 1015-1022).
type Business struct {
	VATNumber           string `json:"vat_number" validate:"required,numeric,min=8,max=9"`
	Name                string `json:"name" validate:"required,max=50"`
	Street              string `json:"street,omitempty" validate:"max=50"`
	HouseNumber         string `json:"house_number,omitempty" validate:"max=10"`
	City                string `json:"city,omitempty" validate:"max=30"`
	Zip                 string `json:"zip,omitempty" validate:"max=8"`
	CompanyRegistration string `json:"company_registration,omitempty" validate:"omitempty,numeric,max=9"`
	WithholdingFile     string `json:"withholding_file,omitempty" validate:"omitempty,numeric,max=9"`
	HasBranches         bool   `json:"has_branches,omitempty"`
}

// Software describes the program that produced the files (INI fields 1006-1011).
type Software struct {
	Registration     string `json:"registration,omitempty" validate:"omitempty,numeric,max=8"`
	Name             string `json:"name" validate:"required,max=20"`
	Version          string `json:"version" validate:"required,max=20"`
	ManufacturerVAT  string `json:"manufacturer_vat,omitempty" validate:"omitempty,numeric,max=9"`
	ManufacturerName string `json:"manufacturer_name,omitempty" validate:"max=20"`
	// Type is 1 for single-year software, 2 for multi-year.
	Type int `json:"type,omitempty" validate:"omitempty,oneof=1 2"`
}

// Period is the reporting range covered by the data file.
type Period struct {
	TaxYear int    `json:"tax_year,omitempty" validate:"omitempty,min=1900,max=9999"`
	Start   string `json:"start,omitempty" validate:"omitempty,datetime=20060102"`
	End     string `json:"end,omitempty" validate:"omitempty,datetime=20060102"`
}

// RecordInput is one body record as supplied in a fixture file.
type RecordInput struct {
	Code   string         `json:"code" validate:"required,len=4,alphanum"`
	Values map[string]any `json:"values,omitempty"`
}

// FixtureInput is the JSON document accepted by `openformat generate --input`.
type FixtureInput struct {
	Business  Business      `json:"business"`
	Software  Software      `json:"software"`
	Period    Period        `json:"period,omitempty"`
	PrimaryID string        `json:"primary_id,omitempty" validate:"omitempty,numeric,len=15"`
	Records   []RecordInput `json:"records" validate:"dive"`
}

// Validate validates the FixtureInput using the validator.
func (f *FixtureInput) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// Validate validates the Variant using the validator.
func (v *Variant) Validate() error {
	validate := validator.New()
	return validate.Struct(v)
}
