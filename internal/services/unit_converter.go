package services

import (
	"math"
	"strings"
)

// Quantity is a magnitude paired with its unit.
type Quantity struct {
	Value float64 `json:"quantidade"`
	Unit  string  `json:"unidade"`
}

// Canonical unit symbols. Mass pivots on mg, volume on mL.
const (
	UnitTon        = "ton"
	UnitKilogram   = "kg"
	UnitGram       = "g"
	UnitMilligram  = "mg"
	UnitLiter      = "L"
	UnitMilliliter = "mL"
	UnitCount      = "un"
)

type unitFamily int

const (
	familyNone unitFamily = iota
	familyMass
	familyVolume
)

// factor of each canonical unit relative to its family's standard unit.
var unitFactors = map[string]float64{
	UnitTon:        1e9,
	UnitKilogram:   1e6,
	UnitGram:       1e3,
	UnitMilligram:  1,
	UnitLiter:      1e3,
	UnitMilliliter: 1,
}

// NormalizeUnit maps spelling variants ("KG", "litros", "Ton") to the canonical
// symbol. Anything unrecognized is returned unchanged.
func NormalizeUnit(unit string) string {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "t", "ton", "tons", "tonelada", "toneladas":
		return UnitTon
	case "kg", "kgs", "quilo", "quilos", "quilograma", "quilogramas":
		return UnitKilogram
	case "g", "gr", "grama", "gramas":
		return UnitGram
	case "mg", "miligrama", "miligramas":
		return UnitMilligram
	case "l", "lt", "lts", "litro", "litros":
		return UnitLiter
	case "ml", "mililitro", "mililitros":
		return UnitMilliliter
	case "un", "und", "unid", "unidade", "unidades":
		return UnitCount
	}
	return unit
}

func familyOf(canonical string) unitFamily {
	switch canonical {
	case UnitTon, UnitKilogram, UnitGram, UnitMilligram:
		return familyMass
	case UnitLiter, UnitMilliliter:
		return familyVolume
	}
	return familyNone
}

func standardUnitOf(f unitFamily) string {
	switch f {
	case familyMass:
		return UnitMilligram
	case familyVolume:
		return UnitMilliliter
	}
	return ""
}

// ToStandardUnit converts mass to mg and volume to mL. Other units pass through.
func ToStandardUnit(quantity float64, unit string) Quantity {
	canonical := NormalizeUnit(unit)
	fam := familyOf(canonical)
	if fam == familyNone {
		return Quantity{Value: quantity, Unit: unit}
	}
	return Quantity{Value: quantity * unitFactors[canonical], Unit: standardUnitOf(fam)}
}

// FromStandardUnit is the inverse of ToStandardUnit. When standardUnit is not
// in desiredUnit's family the quantity is returned unchanged.
func FromStandardUnit(standardQuantity float64, standardUnit, desiredUnit string) float64 {
	std := NormalizeUnit(standardUnit)
	desired := NormalizeUnit(desiredUnit)
	fam := familyOf(desired)
	if fam == familyNone || familyOf(std) != fam {
		return standardQuantity
	}
	return standardQuantity * unitFactors[std] / unitFactors[desired]
}

// BestDisplayUnit scales a raw mg or mL magnitude to the most readable unit.
func BestDisplayUnit(standardQuantity float64, standardUnit string) Quantity {
	if math.IsNaN(standardQuantity) || math.IsInf(standardQuantity, 0) {
		return Quantity{Value: 0, Unit: UnitCount}
	}

	canonical := NormalizeUnit(standardUnit)
	fam := familyOf(canonical)
	if fam == familyNone {
		return Quantity{Value: standardQuantity, Unit: standardUnit}
	}

	// Accept non-standard input by pivoting first.
	value := standardQuantity * unitFactors[canonical]
	magnitude := math.Abs(value)

	var unit string
	switch fam {
	case familyMass:
		switch {
		case magnitude >= 1e9:
			unit = UnitTon
		case magnitude >= 1e6:
			unit = UnitKilogram
		case magnitude >= 1e3:
			unit = UnitGram
		default:
			unit = UnitMilligram
		}
	case familyVolume:
		if magnitude >= 1e3 {
			unit = UnitLiter
		} else {
			unit = UnitMilliliter
		}
	}

	scaled := value / unitFactors[unit]
	return Quantity{Value: roundForDisplay(scaled), Unit: unit}
}

// AutoScaleQuantity converts quantity to its standard unit and picks the best
// display unit. Non-finite input yields a zero count.
func AutoScaleQuantity(quantity float64, unit string) Quantity {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return Quantity{Value: 0, Unit: UnitCount}
	}
	std := ToStandardUnit(quantity, unit)
	return BestDisplayUnit(std.Value, std.Unit)
}

// ConvertBetweenUnits converts a quantity within one family. Same-unit and
// cross-family calls return value unchanged.
func ConvertBetweenUnits(value float64, fromUnit, toUnit string) float64 {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	if from == to {
		return value
	}
	fam := familyOf(from)
	if fam == familyNone || fam != familyOf(to) {
		return value
	}
	return value * unitFactors[from] / unitFactors[to]
}

// ConvertValueBetweenUnits converts a price per fromUnit into a price per
// toUnit: R$/kg to R$/ton multiplies by 1000.
func ConvertValueBetweenUnits(price float64, fromUnit, toUnit string) float64 {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	if from == to {
		return price
	}
	fam := familyOf(from)
	if fam == familyNone || fam != familyOf(to) {
		return price
	}
	return price * unitFactors[to] / unitFactors[from]
}

// ConvertValueFromStandardUnit converts a price per mg (or mL) into a price per desiredUnit.
func ConvertValueFromStandardUnit(pricePerStandard float64, standardUnit, desiredUnit string) float64 {
	return ConvertValueBetweenUnits(pricePerStandard, standardUnit, desiredUnit)
}

// ConvertValueToStandardUnit converts a price per unit into a price per mg (or mL).
func ConvertValueToStandardUnit(price float64, unit string) float64 {
	fam := familyOf(NormalizeUnit(unit))
	if fam == familyNone {
		return price
	}
	return ConvertValueBetweenUnits(price, unit, standardUnitOf(fam))
}

// SameUnitFamily reports whether two units convert into each other.
func SameUnitFamily(a, b string) bool {
	ca, cb := NormalizeUnit(a), NormalizeUnit(b)
	if ca == cb {
		return true
	}
	fam := familyOf(ca)
	return fam != familyNone && fam == familyOf(cb)
}

func roundForDisplay(v float64) float64 {
	if math.Abs(v) >= 10 {
		return math.Round(v*10) / 10
	}
	return math.Round(v*100) / 100
}
