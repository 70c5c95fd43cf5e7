package utils

import "math"

// Round arredonda para a quantidade de casas decimais informada
func Round(f float64, places int) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	pow := math.Pow10(places)
	return math.Round(f*pow) / pow
}

// Ratio retorna numerator/denominator multiplicado por scale, arredondado
// para duas casas; zero quando o denominador é zero
func Ratio(numerator, denominator, scale float64) float64 {
	if denominator == 0 {
		return 0
	}
	return Round(numerator/denominator*scale, 2)
}
