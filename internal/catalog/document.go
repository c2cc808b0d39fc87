package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Document is the catalog tree the operator authors and the pipeline enriches.
// Section names match the keys in the YAML file. Entity IDs are assigned by the
// remote platform and written back after each create; they are never part of a
// create payload.
type Document struct {
	Product      Product       `yaml:"Product"`
	Meter        Meter         `yaml:"Meter"`
	Aggregations []Aggregation `yaml:"Aggregation"`
	PlanTemplate PlanTemplate  `yaml:"PlanTemplate"`
	Plan         Plan          `yaml:"Plan"`
	Pricings     []Pricing     `yaml:"Pricing"`
	Accounts     []Account     `yaml:"Account"`
	AccountPlan  AccountPlan   `yaml:"AccountPlan"`
}

// Product is the root of the catalog hierarchy.
type Product struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Code string `yaml:"code" json:"code" validate:"required"`
	ID   string `yaml:"id,omitempty" json:"-"`
}

// MeterField describes one data or derived field on a meter.
type MeterField struct {
	Category string `yaml:"category" json:"category"`
	Code     string `yaml:"code" json:"code"`
	Name     string `yaml:"name" json:"name"`
	Unit     string `yaml:"unit,omitempty" json:"unit,omitempty"`
}

type Meter struct {
	Name          string       `yaml:"name" json:"name" validate:"required"`
	Code          string       `yaml:"code" json:"code" validate:"required"`
	ProductID     string       `yaml:"productId,omitempty" json:"productId"`
	DataFields    []MeterField `yaml:"dataFields,omitempty" json:"dataFields,omitempty"`
	DerivedFields []MeterField `yaml:"derivedFields,omitempty" json:"derivedFields,omitempty"`
	ID            string       `yaml:"id,omitempty" json:"-"`
}

type Aggregation struct {
	Name            string  `yaml:"name" json:"name" validate:"required"`
	Code            string  `yaml:"code" json:"code" validate:"required"`
	MeterID         string  `yaml:"meterId,omitempty" json:"meterId"`
	TargetField     string  `yaml:"targetField,omitempty" json:"targetField,omitempty"`
	Aggregation     string  `yaml:"aggregation,omitempty" json:"aggregation,omitempty"`
	Rounding        string  `yaml:"rounding,omitempty" json:"rounding,omitempty"`
	Unit            string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	QuantityPerUnit float64 `yaml:"quantityPerUnit,omitempty" json:"quantityPerUnit,omitempty"`
	ID              string  `yaml:"id,omitempty" json:"-"`
}

type PlanTemplate struct {
	Name      string `yaml:"name" json:"name" validate:"required"`
	Code      string `yaml:"code" json:"code" validate:"required"`
	Currency  string `yaml:"currency" json:"currency" validate:"required"`
	ProductID string `yaml:"productId,omitempty" json:"productId"`
	ID        string `yaml:"id,omitempty" json:"-"`
}

type Plan struct {
	Name           string `yaml:"name" json:"name" validate:"required"`
	Code           string `yaml:"code" json:"code" validate:"required"`
	PlanTemplateID string `yaml:"planTemplateId,omitempty" json:"planTemplateId"`
	ID             string `yaml:"id,omitempty" json:"-"`
}

// PricingBand is one tier of a tiered price.
type PricingBand struct {
	LowerLimit float64 `yaml:"lowerLimit" json:"lowerLimit"`
	FixedPrice float64 `yaml:"fixedPrice" json:"fixedPrice"`
	UnitPrice  float64 `yaml:"unitPrice" json:"unitPrice"`
}

// Pricing links a plan to an aggregation. AggregationID is not authored in the
// catalog; the description is resolved against the configured categories.
type Pricing struct {
	Description   string        `yaml:"description" json:"description" validate:"required"`
	Type          string        `yaml:"type,omitempty" json:"type,omitempty"`
	AggregationID string        `yaml:"aggregationId,omitempty" json:"aggregationId,omitempty"`
	PlanID        string        `yaml:"planId,omitempty" json:"planId"`
	StartDate     string        `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	PricingBands  []PricingBand `yaml:"pricingBands,omitempty" json:"pricingBands,omitempty"`
	ID            string        `yaml:"id,omitempty" json:"-"`
}

type Account struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Code string `yaml:"code" json:"code" validate:"required"`
	ID   string `yaml:"id,omitempty" json:"-"`
}

// AccountPlan is a single template applied once per account; AccountID and
// PlanID are filled in during the account stage.
type AccountPlan struct {
	AccountID string `yaml:"accountId,omitempty" json:"accountId"`
	PlanID    string `yaml:"planId,omitempty" json:"planId"`
	StartDate string `yaml:"startDate" json:"startDate" validate:"required"`
}

// Clone returns a deep copy. Stage functions operate on a clone so a failed
// stage never leaves a half-mutated document behind.
func (d Document) Clone() Document {
	out := d
	out.Aggregations = append([]Aggregation(nil), d.Aggregations...)
	out.Pricings = make([]Pricing, len(d.Pricings))
	for i, p := range d.Pricings {
		p.PricingBands = append([]PricingBand(nil), p.PricingBands...)
		out.Pricings[i] = p
	}
	out.Accounts = append([]Account(nil), d.Accounts...)
	out.Meter.DataFields = append([]MeterField(nil), d.Meter.DataFields...)
	out.Meter.DerivedFields = append([]MeterField(nil), d.Meter.DerivedFields...)
	return out
}

var validate = validator.New()

// ValidateCatalogDefinitions checks the sections the catalog stage consumes.
func (d Document) ValidateCatalogDefinitions() error {
	if err := validate.Struct(d.Product); err != nil {
		return fmt.Errorf("Product: %w", err)
	}
	if err := validate.Struct(d.Meter); err != nil {
		return fmt.Errorf("Meter: %w", err)
	}
	if len(d.Aggregations) == 0 {
		return fmt.Errorf("Aggregation: list is empty")
	}
	for i, a := range d.Aggregations {
		if err := validate.Struct(a); err != nil {
			return fmt.Errorf("Aggregation[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidatePlanDefinitions checks the sections the plan stage consumes.
func (d Document) ValidatePlanDefinitions() error {
	if err := validate.Struct(d.PlanTemplate); err != nil {
		return fmt.Errorf("PlanTemplate: %w", err)
	}
	if err := validate.Struct(d.Plan); err != nil {
		return fmt.Errorf("Plan: %w", err)
	}
	for i, p := range d.Pricings {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("Pricing[%d]: %w", i, err)
		}
	}
	return nil
}

// ValidateAccountDefinitions checks the sections the account stage consumes.
func (d Document) ValidateAccountDefinitions() error {
	if len(d.Accounts) == 0 {
		return fmt.Errorf("Account: list is empty")
	}
	for i, a := range d.Accounts {
		if err := validate.Struct(a); err != nil {
			return fmt.Errorf("Account[%d]: %w", i, err)
		}
	}
	if err := validate.Struct(d.AccountPlan); err != nil {
		return fmt.Errorf("AccountPlan: %w", err)
	}
	return nil
}
