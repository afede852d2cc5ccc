package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"CRLF flattened", "ligne 1\r\nligne 2\rligne 3", "ligne 1\nligne 2\nligne 3"},
		{"horizontal runs collapsed", "un\t\t deux   trois", "un deux trois"},
		{"blank-line runs capped", "a\n\n\n\n\nb", "a\n\nb"},
		{"surrounding whitespace trimmed", "  \n  texte  \n  ", "texte"},
		{"empty input", "   \n\t  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestExtractPlain(t *testing.T) {
	extractor := NewTextExtractorService()

	result := extractor.ExtractPlain([]byte("Développeur\r\nbackend   Go"))

	assert.Equal(t, "Développeur\nbackend Go", result.Text)
	assert.Zero(t, result.PageCount)
}

func TestExtractDispatch(t *testing.T) {
	extractor := NewTextExtractorService()

	t.Run("txt goes through the plain path", func(t *testing.T) {
		result, err := extractor.Extract("cv.TXT", []byte("texte brut"))

		require.NoError(t, err)
		assert.Equal(t, "texte brut", result.Text)
	})

	t.Run("unknown extension is rejected", func(t *testing.T) {
		_, err := extractor.Extract("cv.odt", []byte("peu importe"))

		require.ErrorIs(t, err, ErrUnsupportedFileType)
		assert.Contains(t, err.Error(), "cv.odt")
	})

	t.Run("corrupt PDF fails to open", func(t *testing.T) {
		_, err := extractor.ExtractPDF([]byte("pas un pdf"))

		require.Error(t, err)
	})
}

func TestStripDocxTags(t *testing.T) {
	text := NormalizeText(stripDocxTags(`<w:p><w:t>Développeur</w:t></w:p><w:p><w:t>Go</w:t></w:p>`))

	assert.Equal(t, "Développeur Go", text)
}
