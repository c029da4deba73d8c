package utils

import "math"

// Round2 membulatkan ke 2 desimal dengan aturan half-up.
// Semua nilai/bobot di sistem ini disimpan dan dibandingkan pada presisi 2 desimal.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToCents mengubah nilai persen 2-desimal menjadi satuan seperseratus (integer),
// supaya perbandingan jumlah bobot bersifat eksak, bukan perbandingan float.
// Contoh: 33.33 → 3333, 100.00 → 10000.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// WeightedScore menghitung kontribusi terbobot satu nilai mentah
// terhadap satu pemetaan: raw × (bobot / 100), dibulatkan 2 desimal.
func WeightedScore(raw, bobot float64) float64 {
	return Round2(raw * bobot / 100)
}
