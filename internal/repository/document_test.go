package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDocumentSort(t *testing.T) {
	tests := []struct {
		token string
		want  DocumentSort
	}{
		{"recent", SortRecent},
		{"oldest", SortOldest},
		{"sizeAsc", SortSizeAsc},
		{"sizeDesc", SortSizeDesc},
		{"", SortRecent},
		{"bogus", SortRecent},
		{"SIZEDESC", SortRecent},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := ParseDocumentSort(tt.token)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentSort_StringRoundTrip(t *testing.T) {
	for _, s := range []DocumentSort{SortRecent, SortOldest, SortSizeAsc, SortSizeDesc} {
		assert.Equal(t, s, ParseDocumentSort(s.String()))
	}
}

func TestDocumentPatch_Empty(t *testing.T) {
	assert.True(t, DocumentPatch{}.Empty())
	assert.False(t, DocumentPatch{Name: String("x")}.Empty())
	assert.False(t, DocumentPatch{IsDeleted: Bool(false)}.Empty())
}
