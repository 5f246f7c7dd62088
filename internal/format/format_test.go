package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{name: "nil", in: nil, want: Placeholder},
		{name: "NaN", in: ptr(math.NaN()), want: Placeholder},
		{name: "one decimal", in: ptr(8.5), want: "8,5"},
		{name: "integer gets a decimal", in: ptr(7.0), want: "7,0"},
		{name: "zero is a real score", in: ptr(0.0), want: "0,0"},
		{name: "ten", in: ptr(10.0), want: "10,0"},
		{name: "half rounds up", in: ptr(8.25), want: "8,3"},
		{name: "half rounds up after even digit", in: ptr(6.25), want: "6,3"},
		{name: "half rounds up after odd digit", in: ptr(6.75), want: "6,8"},
		{name: "below half rounds down", in: ptr(8.24), want: "8,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.in))
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{name: "nil", in: nil, want: Placeholder},
		{name: "whole", in: ptr(95.0), want: "95%"},
		{name: "full", in: ptr(100.0), want: "100%"},
		{name: "zero", in: ptr(0.0), want: "0%"},
		{name: "half after even rounds up", in: ptr(94.5), want: "95%"},
		{name: "half after odd rounds up", in: ptr(95.5), want: "96%"},
		{name: "below half", in: ptr(94.4), want: "94%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.in))
		})
	}
}

func TestWholeNumber(t *testing.T) {
	assert.Equal(t, Placeholder, WholeNumber(nil))
	assert.Equal(t, "1.200", WholeNumber(ptr(1199.5)))
	assert.Equal(t, "13", WholeNumber(ptr(12.5)))
}

func TestInt(t *testing.T) {
	assert.Equal(t, Placeholder, Int(nil))
	assert.Equal(t, "800", Int(ptr(800)))
	assert.Equal(t, "1.200", Int(ptr(1200)))
	assert.Equal(t, "0", Int(ptr(0)))
}

func TestDate(t *testing.T) {
	assert.Equal(t, Placeholder, Date(nil))
	assert.Equal(t, Placeholder, Date(&time.Time{}))

	d := time.Date(2010, time.March, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "07/03/2010", Date(&d))
	assert.Equal(t, "07/03/2010", IssueDate(d))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "abc", String(ptr("abc")))
	assert.Equal(t, Placeholder, OrPlaceholder("  "))
	assert.Equal(t, "x", OrPlaceholder("x"))
	assert.Equal(t, Placeholder, StringOrPlaceholder(nil))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"João da Silva", "joao-da-silva"},
		{"  Ana   Souza  ", "ana-souza"},
		{"Conceição d'Ávila", "conceicao-d-avila"},
		{"Zoë 2º", "zoe-2"},
		{"—", "historico"},
		{"", "historico"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in, "historico"))
		})
	}
}
