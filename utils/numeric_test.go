package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "sudah 2 desimal", in: 8.50, want: 8.50},
		// 0.125 terwakili eksak di float64, jadi kasus tepat-setengahnya deterministik
		{name: "half-up ke atas", in: 0.125, want: 0.13},
		{name: "pembulatan ke bawah", in: 8.504, want: 8.50},
		{name: "bilangan bulat", in: 100, want: 100},
		{name: "nol", in: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round2(tt.in))
		})
	}
}

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(3333), ToCents(33.33))
	assert.Equal(t, int64(10000), ToCents(100.00))
	assert.Equal(t, int64(0), ToCents(0))

	// 33.33 + 33.33 + 33.34 harus tepat 100.00 dalam satuan seperseratus,
	// meskipun penjumlahan float-nya tidak eksak
	total := ToCents(33.33) + ToCents(33.33) + ToCents(33.34)
	assert.Equal(t, int64(10000), total)
}

func TestWeightedScore(t *testing.T) {
	// 85 pada bobot 10% menyumbang 8.50
	assert.Equal(t, 8.50, WeightedScore(85, 10))

	// pembulatan half-up pada hasil perkalian
	assert.Equal(t, 28.33, WeightedScore(84.99, 33.33))

	// bobot 0 selalu menyumbang 0
	assert.Equal(t, 0.0, WeightedScore(85, 0))

	// bobot 100 meneruskan nilai mentah apa adanya
	assert.Equal(t, 85.0, WeightedScore(85, 100))
}
