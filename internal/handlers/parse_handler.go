package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"cvboost/cv-analyzer/internal/services"
)

type ParseHandler struct {
	extractor services.TextExtractorService
}

func NewParseHandler(extractor services.TextExtractorService) *ParseHandler {
	return &ParseHandler{
		extractor: extractor,
	}
}

// HandleParsePDF handles POST /api/parse/pdf (multipart field "file").
func (h *ParseHandler) HandleParsePDF(c *fiber.Ctx) error {
	data, _, err := readUploadedFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file manquant",
		})
	}

	extracted, err := h.extractor.ExtractPDF(data)
	if err != nil {
		return extractionError(c, err)
	}

	return c.JSON(fiber.Map{
		"text":      extracted.Text,
		"pageCount": extracted.PageCount,
	})
}

// HandleParseDOCX handles POST /api/parse/docx. Plain .txt uploads pass
// through with normalization only.
func (h *ParseHandler) HandleParseDOCX(c *fiber.Ctx) error {
	data, filename, err := readUploadedFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file manquant",
		})
	}

	var extracted *services.ExtractedText
	if strings.HasSuffix(strings.ToLower(filename), ".txt") {
		extracted = h.extractor.ExtractPlain(data)
	} else {
		extracted, err = h.extractor.ExtractDOCX(data)
		if err != nil {
			return extractionError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"text": extracted.Text,
	})
}

func extractionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedFileType):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": services.ErrUnsupportedFileType.Error(),
		})
	case errors.Is(err, services.ErrNoTextContent):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": services.ErrNoTextContent.Error(),
		})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "impossible d'extraire le texte du fichier",
		})
	}
}

func readUploadedFile(c *fiber.Ctx) ([]byte, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", err
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}

	return data, file.Filename, nil
}
