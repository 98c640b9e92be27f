package domain

import "testing"

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"Zero value", Page{}, Page{Limit: 50, Offset: 0, OrderBy: "created_at"}},
		{"Negative offset", Page{Limit: 10, Offset: -5}, Page{Limit: 10, Offset: 0, OrderBy: "created_at"}},
		{"Limit over cap", Page{Limit: 10_000}, Page{Limit: 50, OrderBy: "created_at"}},
		{"Valid passes through", Page{Limit: 200, Offset: 100, OrderBy: "-price"}, Page{Limit: 200, Offset: 100, OrderBy: "-price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
