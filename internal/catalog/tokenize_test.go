package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  []string
	}{
		{
			name: "plain title",
			in:   "Project Description",
			want: []string{"project", "description"},
		},
		{
			name: "numbering and punctuation",
			in:   "4.3.7 Land-Acquisition & Resettlement",
			want: []string{"land", "acquisition", "resettlement"},
		},
		{
			name: "camel case",
			in:   "projectDescription",
			want: []string{"project", "description"},
		},
		{
			name: "acronym run",
			in:   "ESMSPolicyFramework",
			want: []string{"esms", "policy", "framework"},
		},
		{
			name: "short tokens dropped",
			in:   "of the PV at a site",
			want: []string{"the", "site"},
		},
		{
			name: "diacritics folded",
			in:   "Descripción del Proyecto",
			want: []string{"descripcion", "del", "proyecto"},
		},
		{
			// Token length is measured in runes; two Cyrillic letters are
			// four UTF-8 bytes but still a short token.
			name: "short non-latin tokens dropped",
			in:   "Оценка на окружающую среду",
			want: []string{"оценка", "окружающую", "среду"},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "project description", NormalizeTitle("Project   Description"))
	assert.Equal(t, "descripcion del proyecto", NormalizeTitle("Descripción del Proyecto"))
}
