package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/combatessentials/api/internal/service"
)

type ExportHandler struct {
	productService *service.ProductService
}

func NewExportHandler(productService *service.ProductService) *ExportHandler {
	return &ExportHandler{productService: productService}
}

// Products streams the whole catalog, soft-deleted rows included, as an
// .xlsx download for back-office use.
func (h *ExportHandler) Products(c *gin.Context) {
	products, err := h.productService.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	headers := []string{"ID", "Name", "Description", "Price", "Category", "ImageURL", "Status", "CreatedAt"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.String())
		row.AddCell().SetValue(p.CategoryName)
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(string(p.Status))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
}
