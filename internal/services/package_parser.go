package services

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownPackage is returned when a package description has no usable size.
var ErrUnknownPackage = errors.New("embalagem não reconhecida")

var (
	multiPackPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:x|\*)\s*(\d+(?:[.,]\d+)?)\s*([[:alpha:]]+)`)
	sizePattern      = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*([[:alpha:]]+)`)
)

// ParsePackageSize reads the content of one package from descriptions such as
// "saco 50 kg", "bombona 20 litros" or "caixa 12 x 1 L".
func ParsePackageSize(text string) (Quantity, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Quantity{}, ErrUnknownPackage
	}

	if m := multiPackPattern.FindStringSubmatch(text); m != nil {
		count, err1 := parseDecimalComma(m[1])
		size, err2 := parseDecimalComma(m[2])
		unit := NormalizeUnit(m[3])
		if err1 == nil && err2 == nil && familyOf(unit) != familyNone {
			return Quantity{Value: count * size, Unit: unit}, nil
		}
	}

	for _, m := range sizePattern.FindAllStringSubmatch(text, -1) {
		unit := NormalizeUnit(m[2])
		if familyOf(unit) == familyNone {
			continue
		}
		size, err := parseDecimalComma(m[1])
		if err != nil || size <= 0 {
			continue
		}
		return Quantity{Value: size, Unit: unit}, nil
	}
	return Quantity{}, ErrUnknownPackage
}

// isPackageUnit reports whether unit looks like a package description rather
// than a plain unit symbol.
func isPackageUnit(unit string) bool {
	canonical := NormalizeUnit(unit)
	return familyOf(canonical) == familyNone && canonical != UnitCount && strings.ContainsAny(unit, "0123456789")
}

func parseDecimalComma(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
