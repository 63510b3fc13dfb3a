package catalogControllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	catalogControllers "github.com/vishal444/ecomm-api/controllers/catalog"
	"github.com/vishal444/ecomm-api/testutil"
)

func TestExportProductsToExcel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)
	testutil.SeedProduct(t, db, "Mouse", 19.90, 5)

	r := gin.New()
	r.GET("/export", catalogControllers.ExportProductsToExcelHandler(db))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "Products", sheet.Name)

	// Header plus one row per product.
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Name", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "Keyboard", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "Mouse", sheet.Rows[2].Cells[1].Value)
}
